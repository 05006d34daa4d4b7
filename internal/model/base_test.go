package model

import "testing"

func TestWeekdaySet_ScanValue(t *testing.T) {
	var w WeekdaySet
	if err := w.Scan([]byte("{0, 2,4}")); err != nil {
		t.Fatalf("Scan 失败: %v", err)
	}
	if len(w) != 3 || w[0] != 0 || w[1] != 2 || w[2] != 4 {
		t.Errorf("期望 [0 2 4]，实际 %v", w)
	}

	v, err := WeekdaySet{4, 0, 2, 4}.Value()
	if err != nil || v != "{0,2,4}" {
		t.Errorf("期望去重排序后为 {0,2,4}，实际 %v err=%v", v, err)
	}

	if err := w.Scan("{}"); err != nil || len(w) != 0 {
		t.Errorf("空数组解析错误: %v %v", w, err)
	}
	if err := w.Scan(nil); err != nil || w != nil {
		t.Errorf("NULL 应解析为 nil，实际 %v", w)
	}
	if err := w.Scan("{1,x}"); err == nil {
		t.Error("非法元素应返回错误")
	}
	if err := w.Scan("{7}"); err == nil {
		t.Error("超出 0-6 的星期应返回错误")
	}
	if err := w.Scan(42); err == nil {
		t.Error("不支持的类型应返回错误")
	}
	if _, err := (WeekdaySet{9}).Value(); err == nil {
		t.Error("写入超出范围的星期应返回错误")
	}
}

func TestWeekdaySet_Has(t *testing.T) {
	w := NewWeekdaySet(3, 1, 3)
	if len(w) != 2 || w[0] != 1 {
		t.Errorf("期望 [1 3]，实际 %v", w)
	}
	if !w.Has(3) || w.Has(0) {
		t.Errorf("Has 判断错误: %v", w)
	}
}
