package sink

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Console 표를 터미널용 텍스트 표로 출력합니다.
type Console struct {
	out io.Writer
}

var _ Sink = (*Console)(nil)

// NewConsole out 이 nil 이면 표준 출력에 씁니다.
func NewConsole(out io.Writer) *Console {
	if out == nil {
		out = os.Stdout
	}
	return &Console{out: out}
}

func (c *Console) Write(ctx context.Context, t Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetOutputMirror(c.out)
	tw.SetTitle(t.Name)

	header := make(table.Row, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range t.Rows {
		line := make(table.Row, len(row))
		for i, v := range row {
			line[i] = consoleCell(v)
		}
		tw.AppendRow(line)
	}
	tw.AppendFooter(table.Row{fmt.Sprintf("%d行", len(t.Rows))})

	tw.Render()
	return nil
}

func consoleCell(v any) any {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		return fmt.Sprintf("%.2f", x)
	default:
		return x
	}
}
