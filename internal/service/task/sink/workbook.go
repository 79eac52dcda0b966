package sink

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/darkkaiser/phone-price-server/internal/pricing/compare"
	"github.com/darkkaiser/phone-price-server/internal/pricing/offer"
	applog "github.com/darkkaiser/phone-price-server/pkg/log"
	"github.com/xuri/excelize/v2"
)

const (
	defaultSheet = "Sheet1"

	// maxSheetNameLength Excel 시트 이름의 최대 길이입니다.
	maxSheetNameLength = 31

	headerFillColor = "F3F3F3"
	usedFillColor   = "FFF2CC"

	yenFormat = "¥#,##0"
	// percentFormat 내장 서식 10번 (0.00%)
	percentFormat = 10

	usedPrefix = "中古"
)

var sheetNameReplacer = strings.NewReplacer(
	"[", "(",
	"]", ")",
	":", "-",
	"*", "-",
	"?", "-",
	"/", "-",
	"\\", "-",
)

// Workbook 표를 엑셀 워크북의 시트로 저장합니다.
// 같은 이름의 시트는 통째로 교체하고, 파일은 임시 파일을 거쳐 원자적으로 저장합니다.
type Workbook struct {
	path string

	mu sync.Mutex
}

var _ Sink = (*Workbook)(nil)

func NewWorkbook(path string) *Workbook {
	return &Workbook{path: path}
}

func (w *Workbook) Path() string {
	return w.path
}

// Write 시트를 새로 만들어 표를 쓰고 Style 에 맞는 서식을 적용합니다.
func (w *Workbook) Write(ctx context.Context, t Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Name) == "" {
		return ErrEmptyTableName
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	f, created, err := w.open()
	if err != nil {
		return err
	}
	defer f.Close()

	sheet := SheetName(t.Name)
	if err := replaceSheet(f, sheet); err != nil {
		return newErrWorkbook(err, sheet)
	}

	if err := writeRows(f, sheet, t.Header, t.Rows); err != nil {
		return newErrWorkbook(err, sheet)
	}
	if err := applyStyle(f, sheet, t); err != nil {
		return newErrWorkbook(err, sheet)
	}

	if created {
		removeDefaultSheet(f, sheet)
	}

	if err := w.save(f); err != nil {
		return err
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"path":  w.path,
		"sheet": sheet,
		"rows":  len(t.Rows),
	}).Debug("워크북 시트 저장 완료")

	return nil
}

// Append 시트 끝에 한 행을 추가합니다. 시트가 없으면 header 로 새로 만듭니다.
func (w *Workbook) Append(ctx context.Context, sheet string, header []string, row []any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	f, created, err := w.open()
	if err != nil {
		return err
	}
	defer f.Close()

	sheet = SheetName(sheet)

	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return newErrWorkbook(err, sheet)
	}
	if idx == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return newErrWorkbook(err, sheet)
		}
		if err := writeRows(f, sheet, header, nil); err != nil {
			return newErrWorkbook(err, sheet)
		}
		if err := styleHeader(f, sheet, len(header)); err != nil {
			return newErrWorkbook(err, sheet)
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return newErrWorkbook(err, sheet)
	}

	cell, err := excelize.CoordinatesToCellName(1, len(rows)+1)
	if err != nil {
		return newErrWorkbook(err, sheet)
	}
	if err := f.SetSheetRow(sheet, cell, &row); err != nil {
		return newErrWorkbook(err, sheet)
	}

	if created {
		removeDefaultSheet(f, sheet)
	}

	return w.save(f)
}

// Sheet 시트의 모든 행을 셀 서식 없이 읽습니다. 테스트와 진단용입니다.
func (w *Workbook) Sheet(name string) ([][]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return nil, newErrWorkbook(err, name)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName(name), excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, newErrWorkbook(err, name)
	}
	return rows, nil
}

func (w *Workbook) open() (*excelize.File, bool, error) {
	f, err := excelize.OpenFile(w.path)
	if err == nil {
		return f, false, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return excelize.NewFile(), true, nil
	}
	return nil, false, newErrWorkbook(err, "")
}

func (w *Workbook) save(f *excelize.File) error {
	return writeAtomic(w.path, func(out io.Writer) error {
		return f.Write(out)
	})
}

// SheetName Excel 시트 이름으로 쓸 수 없는 문자를 바꾸고 31자로 자릅니다.
func SheetName(name string) string {
	name = sheetNameReplacer.Replace(strings.TrimSpace(name))

	runes := []rune(name)
	if len(runes) > maxSheetNameLength {
		runes = runes[:maxSheetNameLength]
	}
	return string(runes)
}

// replaceSheet 기존 시트를 지우고 같은 이름의 빈 시트를 만듭니다.
// 마지막 남은 시트는 지울 수 없으므로 새 시트를 먼저 만든 뒤 이전 시트를 지웁니다.
func replaceSheet(f *excelize.File, sheet string) error {
	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return err
	}
	if idx == -1 {
		_, err := f.NewSheet(sheet)
		return err
	}

	const staleSuffix = "~old"
	stale := string([]rune(sheet)[:min(len([]rune(sheet)), maxSheetNameLength-len(staleSuffix))]) + staleSuffix
	if err := f.SetSheetName(sheet, stale); err != nil {
		return err
	}
	newIdx, err := f.NewSheet(sheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(newIdx)
	return f.DeleteSheet(stale)
}

func removeDefaultSheet(f *excelize.File, keep string) {
	if keep == defaultSheet {
		return
	}
	if idx, err := f.GetSheetIndex(defaultSheet); err == nil && idx != -1 {
		_ = f.DeleteSheet(defaultSheet)
	}
}

func writeRows(f *excelize.File, sheet string, header []string, rows [][]any) error {
	headerCells := make([]any, len(header))
	for i, h := range header {
		headerCells[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerCells); err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func styleHeader(f *excelize.File, sheet string, columns int) error {
	if columns == 0 {
		return nil
	}

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerFillColor}},
	})
	if err != nil {
		return err
	}

	last, err := excelize.CoordinatesToCellName(columns, 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, style)
}

type columnKind int

const (
	kindText columnKind = iota
	kindYen
	kindPercent
)

// columnKinds 헤더 이름으로 각 열의 서식 종류를 정합니다.
func columnKinds(header []string, style Style) []columnKind {
	kinds := make([]columnKind, len(header))
	if style == StylePlain {
		return kinds
	}

	for i, h := range header {
		switch {
		case h == compare.ColumnDiscountRate || h == compare.ColumnReturnRate:
			kinds[i] = kindPercent
		case h == offer.ColumnFull || h == offer.ColumnDiscount || h == offer.ColumnReturn,
			h == compare.ColumnMinFull || h == compare.ColumnMinDiscount || h == compare.ColumnMinReturn,
			strings.HasSuffix(h, "_"+offer.ColumnFull),
			strings.HasSuffix(h, "_"+offer.ColumnDiscount),
			strings.HasSuffix(h, "_"+offer.ColumnReturn):
			kinds[i] = kindYen
		}
	}
	return kinds
}

// cellStyles 열 종류와 중고 행 여부의 조합마다 스타일을 하나씩 만듭니다.
type cellStyles map[columnKind][2]int

func newCellStyles(f *excelize.File) (cellStyles, error) {
	yen := yenFormat
	bases := map[columnKind]excelize.Style{
		kindText:    {},
		kindYen:     {CustomNumFmt: &yen},
		kindPercent: {NumFmt: percentFormat},
	}

	styles := make(cellStyles, len(bases))
	for kind, base := range bases {
		plain := base
		plainID, err := f.NewStyle(&plain)
		if err != nil {
			return nil, err
		}

		tinted := base
		tinted.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{usedFillColor}}
		tintedID, err := f.NewStyle(&tinted)
		if err != nil {
			return nil, err
		}

		styles[kind] = [2]int{plainID, tintedID}
	}
	return styles, nil
}

func applyStyle(f *excelize.File, sheet string, t Table) error {
	if err := styleHeader(f, sheet, len(t.Header)); err != nil {
		return err
	}
	if t.Style == StylePlain || len(t.Header) == 0 {
		return nil
	}

	styles, err := newCellStyles(f)
	if err != nil {
		return err
	}

	kinds := columnKinds(t.Header, t.Style)
	conditionIdx := -1
	if t.Style == StyleSummary {
		for i, h := range t.Header {
			if h == compare.ColumnCondition {
				conditionIdx = i
				break
			}
		}
	}

	for r, row := range t.Rows {
		tint := 0
		if conditionIdx >= 0 && conditionIdx < len(row) {
			if s, ok := row[conditionIdx].(string); ok && strings.HasPrefix(s, usedPrefix) {
				tint = 1
			}
		}

		for c, kind := range kinds {
			if kind == kindText && tint == 0 {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellStyle(sheet, cell, cell, styles[kind][tint]); err != nil {
				return err
			}
		}
	}

	if t.Style == StyleSummary {
		// 헤더 행과 機種名/容量/状態 3열을 고정합니다.
		return f.SetPanes(sheet, &excelize.Panes{
			Freeze:      true,
			XSplit:      3,
			YSplit:      1,
			TopLeftCell: "D2",
			ActivePane:  "bottomRight",
		})
	}
	return nil
}
