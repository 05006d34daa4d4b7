package model

// 导入批次状态
const (
	ImportStatusCompleted = "completed"
	ImportStatusPartial   = "partial"
	ImportStatusFailed    = "failed"
)

// ImportBatch 导入批次表，对应 import_batches
type ImportBatch struct {
	BatchID       string `gorm:"type:uuid;primaryKey"                json:"batch_id"`
	FileName      string `gorm:"type:varchar(255);not null"          json:"file_name"`
	Format        string `gorm:"type:varchar(10);not null"           json:"format"` // csv | xlsx
	TotalRows     int    `gorm:"not null;default:0"                  json:"total_rows"`
	Imported      int    `gorm:"not null;default:0"                  json:"imported"`
	Failed        int    `gorm:"not null;default:0"                  json:"failed"`
	BlocksCreated int    `gorm:"not null;default:0"                  json:"blocks_created"`
	Status        string `gorm:"type:varchar(20);not null"           json:"status"`
	BaseModel
}

// TableName 指定表名
func (ImportBatch) TableName() string { return "import_batches" }
