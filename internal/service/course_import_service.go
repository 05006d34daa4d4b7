package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding/traditionalchinese"

	"github.com/chinkunlim/Project-Synapse/config"
	"github.com/chinkunlim/Project-Synapse/internal/dto"
	"github.com/chinkunlim/Project-Synapse/internal/model"
	"github.com/chinkunlim/Project-Synapse/internal/repository"
	"github.com/chinkunlim/Project-Synapse/internal/schedule"
)

// ── 导入模块业务错误 ──

var (
	ErrImportEmptyFile         = errors.New("文件中没有课程数据")
	ErrImportUnsupportedFormat = errors.New("仅支持 .csv 与 .xlsx 文件")
	ErrImportFileInvalid       = errors.New("文件内容无法解析")
	ErrImportWindowInvalid     = errors.New("全局学期日期无效：需同时提供开始与结束，且开始不晚于结束")
	ErrImportSemesterInvalid   = errors.New("归属学期无效：学年与学期需同时提供，学期为 1 或 2")
)

// ImportRequest 课程导入请求
type ImportRequest struct {
	FileName      string
	Content       []byte
	SemesterStart string   // 可选，与 SemesterEnd 一起启用旧版均分
	SemesterEnd   string
	// 可选，均分课程的归属学期；为 0 时不归属任何学期，只能按批次导出
	Year          int
	Semester      int
	ExcludeDates  []string // YYYY-MM-DD
	CallerID      string
}

// CourseImportService 课程批量导入接口
type CourseImportService interface {
	Import(ctx context.Context, req *ImportRequest) (*dto.ImportResultResponse, error)
}

type courseImportService struct {
	cfg      *config.ImportConfig
	repo     *repository.Repository
	calendar schedule.SemesterStore
	logger   *zap.Logger
}

// NewCourseImportService 创建 CourseImportService 实例
func NewCourseImportService(cfg *config.ImportConfig, repo *repository.Repository, cal schedule.SemesterStore, logger *zap.Logger) CourseImportService {
	return &courseImportService{cfg: cfg, repo: repo, calendar: cal, logger: logger}
}

// rowResult 单行解析 + 解算结果
type rowResult struct {
	line   int // 文件中的行号（表头为第 1 行）
	record *schedule.CourseRecord
	blocks []schedule.TeachingBlock
	status schedule.ParseStatus
	issues []schedule.Issue
}

func (r rowResult) ok() bool {
	return r.record != nil && len(r.blocks) > 0
}

// ═══════════════════════════════════════════════════════════
// Import
// ═══════════════════════════════════════════════════════════
//
// 1. 读取 CSV / XLSX 为行
// 2. 并行解析与解算（errgroup，受 import.workers 限制）
// 3. 在同一事务内写入批次、课程与教学块

func (s *courseImportService) Import(ctx context.Context, req *ImportRequest) (*dto.ImportResultResponse, error) {
	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(req.FileName), "."))

	var (
		rows []indexedRow
		err  error
	)
	switch format {
	case "csv":
		rows, err = readCSVRows(req.Content)
	case "xlsx":
		rows, err = readXLSXRows(req.Content)
	default:
		return nil, ErrImportUnsupportedFormat
	}
	if err != nil {
		s.logger.Warn("读取导入文件失败", zap.String("file", req.FileName), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrImportFileInvalid, err)
	}
	if len(rows) == 0 {
		return nil, ErrImportEmptyFile
	}

	fallback, err := parseWindow(req.SemesterStart, req.SemesterEnd)
	if err != nil {
		return nil, err
	}
	if err := validateStamp(req.Year, req.Semester); err != nil {
		return nil, err
	}
	exclude, err := parseDateList(req.ExcludeDates)
	if err != nil {
		return nil, err
	}

	results, err := s.resolveRows(ctx, rows, fallback, exclude)
	if err != nil {
		return nil, err
	}

	return s.persist(ctx, req, format, results)
}

// resolveRows 并行处理各行，结果顺序与输入一致
func (s *courseImportService) resolveRows(ctx context.Context, rows []indexedRow, fallback *schedule.Approximate, exclude []time.Time) ([]rowResult, error) {
	results := make([]rowResult, len(rows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers())
	for i := range rows {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.resolveRow(rows[i], fallback, exclude)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *courseImportService) resolveRow(row indexedRow, fallback *schedule.Approximate, exclude []time.Time) rowResult {
	res := rowResult{line: row.line}

	outcome := schedule.InterpretRow(row.values, fallback)
	res.issues = outcome.Issues
	if !outcome.OK() {
		return res
	}
	res.record = outcome.Record
	res.status = schedule.ParseComplete
	if len(outcome.Issues) > 0 {
		res.status = schedule.ParsePartial
	}

	blocks, issues := schedule.Resolve(s.calendar, *outcome.Record, exclude)
	res.blocks = blocks
	res.issues = append(res.issues, issues...)
	if len(blocks) == 0 && len(issues) == 0 {
		res.issues = append(res.issues, schedule.Issue{
			Kind:   schedule.IssueEmptyNotation,
			Input:  outcome.Record.Name,
			Detail: "学期区间内没有匹配的上课日期",
		})
	}
	return res
}

func (s *courseImportService) persist(ctx context.Context, req *ImportRequest, format string, results []rowResult) (*dto.ImportResultResponse, error) {
	batchID := uuid.NewString()
	resp := &dto.ImportResultResponse{
		BatchID:   batchID,
		TotalRows: len(results),
		Errors:    []string{},
	}

	var courses []*model.Course
	for _, r := range results {
		if !r.ok() {
			resp.Failed++
			s.appendError(resp, r)
			continue
		}
		course := buildCourse(r, batchID, req)
		courses = append(courses, course)
		resp.Imported++
		resp.BlocksCreated += len(course.Blocks)
	}

	batch := &model.ImportBatch{
		BatchID:       batchID,
		FileName:      req.FileName,
		Format:        format,
		TotalRows:     resp.TotalRows,
		Imported:      resp.Imported,
		Failed:        resp.Failed,
		BlocksCreated: resp.BlocksCreated,
		Status:        batchStatus(resp.Imported, resp.Failed),
	}
	batch.CreatedBy = &req.CallerID
	batch.UpdatedBy = &req.CallerID

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()

	txRepo := s.repo.WithTx(tx)

	if err := txRepo.ImportBatch.Create(ctx, batch); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("创建导入批次失败", zap.Error(err))
		return nil, err
	}
	for _, c := range courses {
		if err := txRepo.Course.Create(ctx, c); err != nil {
			if tx != nil {
				tx.Rollback()
			}
			s.logger.Error("保存课程失败", zap.String("name", c.Name), zap.Error(err))
			return nil, err
		}
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return nil, err
		}
	}

	s.logger.Info("课程导入完成",
		zap.String("batch_id", batchID),
		zap.String("file", req.FileName),
		zap.Int("imported", resp.Imported),
		zap.Int("failed", resp.Failed),
		zap.Int("blocks", resp.BlocksCreated),
	)
	return resp, nil
}

func (s *courseImportService) appendError(resp *dto.ImportResultResponse, r rowResult) {
	if len(resp.Errors) >= s.maxErrors() {
		return
	}
	detail := "无法解析"
	if len(r.issues) > 0 {
		parts := make([]string, 0, len(r.issues))
		for _, is := range r.issues {
			parts = append(parts, is.String())
		}
		detail = strings.Join(parts, "; ")
	}
	resp.Errors = append(resp.Errors, fmt.Sprintf("第 %d 行: %s", r.line, detail))
}

func (s *courseImportService) workers() int {
	if s.cfg == nil || s.cfg.Workers < 1 {
		return 4
	}
	return s.cfg.Workers
}

func (s *courseImportService) maxErrors() int {
	if s.cfg == nil || s.cfg.MaxErrors < 1 {
		return 10
	}
	return s.cfg.MaxErrors
}

// ── 构建模型 ──

func buildCourse(r rowResult, batchID string, req *ImportRequest) *model.Course {
	callerID := req.CallerID
	rec := r.record
	course := &model.Course{
		BatchID:     &batchID,
		Name:        rec.Name,
		Code:        rec.Code,
		Instructor:  rec.Instructor,
		Hours:       rec.Hours,
		Credits:     rec.Credits,
		Display:     rec.Display,
		ParseStatus: string(r.status),
	}
	course.CreatedBy = &callerID
	course.UpdatedBy = &callerID

	switch in := rec.Input.(type) {
	case schedule.Precise:
		year, number := in.Year, in.Semester
		course.Mode = model.CourseModePrecise
		course.AcademicYear = &year
		course.SemesterNumber = &number
		course.Notation = in.Notation
		course.Weekdays = sessionWeekdays(rec.Sessions)
	case schedule.Approximate:
		course.Mode = model.CourseModeApproximate
		if req.Year > 0 {
			year, number := req.Year, req.Semester
			course.AcademicYear = &year
			course.SemesterNumber = &number
		}
	}

	course.Blocks = make([]model.CourseBlock, 0, len(r.blocks))
	for _, b := range r.blocks {
		course.Blocks = append(course.Blocks, fromTeachingBlock(b))
	}
	return course
}

func sessionWeekdays(sessions []schedule.ClassSession) model.WeekdaySet {
	days := make([]int, 0, len(sessions))
	for _, s := range sessions {
		days = append(days, s.Weekday)
	}
	return model.NewWeekdaySet(days...)
}

func batchStatus(imported, failed int) string {
	switch {
	case imported == 0:
		return model.ImportStatusFailed
	case failed > 0:
		return model.ImportStatusPartial
	default:
		return model.ImportStatusCompleted
	}
}

// parseWindow 解析全局学期区间；两者皆空时不启用均分
// validateStamp 学年与学期要么都为 0，要么都有效
func validateStamp(year, number int) error {
	switch {
	case year == 0 && number == 0:
		return nil
	case year > 0 && (number == 1 || number == 2):
		return nil
	}
	return ErrImportSemesterInvalid
}

func parseWindow(start, end string) (*schedule.Approximate, error) {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start == "" && end == "" {
		return nil, nil
	}
	if start == "" || end == "" {
		return nil, ErrImportWindowInvalid
	}
	s, err := schedule.ParseDate(start)
	if err != nil {
		return nil, ErrImportWindowInvalid
	}
	e, err := schedule.ParseDate(end)
	if err != nil {
		return nil, ErrImportWindowInvalid
	}
	if e.Before(s) {
		return nil, ErrImportWindowInvalid
	}
	return &schedule.Approximate{GlobalStart: s, GlobalEnd: e}, nil
}

// ── 文件读取 ──

// indexedRow 带行号的原始行
type indexedRow struct {
	line   int
	values schedule.Row
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// readCSVRows 读取 CSV：优先 UTF-8（容忍 BOM），非法 UTF-8 时按 Big5 解码
func readCSVRows(content []byte) ([]indexedRow, error) {
	content = bytes.TrimPrefix(content, utf8BOM)
	if !utf8.Valid(content) {
		decoded, err := traditionalchinese.Big5.NewDecoder().Bytes(content)
		if err != nil {
			return nil, fmt.Errorf("Big5 解码失败: %w", err)
		}
		content = decoded
	}

	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var records [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return tableToRows(records), nil
}

// readXLSXRows 读取第一个工作表
func readXLSXRows(content []byte) ([]indexedRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	return tableToRows(records), nil
}

// tableToRows 首行为表头；全空行被跳过
func tableToRows(records [][]string) []indexedRow {
	if len(records) == 0 {
		return nil
	}
	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	var rows []indexedRow
	for i, rec := range records[1:] {
		row := make(schedule.Row, len(header))
		empty := true
		for j, v := range rec {
			if j >= len(header) || header[j] == "" {
				continue
			}
			v = strings.TrimSpace(v)
			if v != "" {
				empty = false
			}
			// 表头重复时取第一个非空值
			if row[header[j]] == "" {
				row[header[j]] = v
			}
		}
		if empty {
			continue
		}
		rows = append(rows, indexedRow{line: i + 2, values: row})
	}
	return rows
}
