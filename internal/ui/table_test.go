package ui

import (
	"strings"
	"testing"
)

func TestTruncateTableCellCountsRunes(t *testing.T) {
	value := strings.Repeat("a", tableCellMaxWidth-1) + "é"

	if got := TruncateTableCell(value); got != value {
		t.Fatalf("expected value to remain untruncated, got %q", got)
	}
}

func TestTruncateTableCellAddsEllipsis(t *testing.T) {
	value := strings.Repeat("a", tableCellMaxWidth+10)

	got := TruncateTableCell(value)
	want := strings.Repeat("a", tableCellMaxWidth-len(tableCellEllipsis)) + tableCellEllipsis
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestTruncateTableCellIgnoresANSICodes(t *testing.T) {
	value := "\x1b[1m\x1b[36m" + strings.Repeat("a", tableCellMaxWidth) + "\x1b[0m"

	if got := TruncateTableCell(value); got != value {
		t.Fatalf("expected value to remain untruncated, got %q", got)
	}
}

func TestFormatTableNormalizesLineBreaks(t *testing.T) {
	got := FormatTable([]string{"COL"}, [][]string{{"Hello\nWorld\r\nAgain\tTab"}})

	expected := "COL\nHello World Again Tab\n"
	if got != expected {
		t.Fatalf("expected normalized table output, got %q", got)
	}
}

func TestTableBuilderAlignsColumns(t *testing.T) {
	builder := NewTableBuilder([]string{"ID", "TASK", "HOURS"}, 2)
	builder.AddRow("101", "Design", "1.50")
	builder.AddRow("7", "Code review", "-")

	expected := "" +
		"ID   TASK         HOURS\n" +
		"101  Design       1.50\n" +
		"7    Code review  -\n"
	if got := builder.String(); got != expected {
		t.Fatalf("expected:\n%s\ngot:\n%s", expected, got)
	}
	if builder.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", builder.Len())
	}
}
