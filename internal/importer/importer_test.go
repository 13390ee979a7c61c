package importer_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/quizforge/backend/internal/domain/questionbank"
	"github.com/quizforge/backend/internal/importer"
)

const header = "topic,difficulty,kind,question,options,answer,explanation\n"

func TestImport_CSV(t *testing.T) {
	data := header +
		"Science,easy,multiple_choice,What is H2O?,Water|Salt|Sand,Water,Two hydrogens\n" +
		"History,Hard,,Who crossed the Rubicon?,Caesar|Pompey,Caesar,\n" +
		"Tech,medium,short_answer,What does CPU stand for?,,Central Processing Unit,\n" +
		",,,,,,\n" +
		"Tech,extreme,multiple_choice,Broken?,a|b,a,\n" +
		"Tech,easy,multiple_choice,Answer missing from options,a|b,c,\n"

	res, err := importer.Import("bank.csv", strings.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.TotalProcessed != 5 {
		t.Errorf("expected 5 processed rows, got %d", res.TotalProcessed)
	}
	if len(res.Questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(res.Questions))
	}
	if len(res.Errors) != 2 {
		t.Errorf("expected 2 row errors, got %v", res.Errors)
	}

	first := res.Questions[0]
	if first.Topic != "Science" || first.Answer != "Water" || len(first.Options) != 3 {
		t.Errorf("unexpected first question %+v", first)
	}
	if res.Questions[1].Difficulty != questionbank.Hard || res.Questions[1].Kind != questionbank.KindMultipleChoice {
		t.Errorf("unexpected second question %+v", res.Questions[1])
	}
	if res.Questions[2].Kind != questionbank.KindShortAnswer || len(res.Questions[2].Options) != 0 {
		t.Errorf("unexpected third question %+v", res.Questions[2])
	}
}

func TestImport_Excel(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	rows := [][]interface{}{
		{"topic", "difficulty", "kind", "question", "options", "answer"},
		{"Science", "medium", "multiple_choice", "Atom is to molecule as cell is to?", "Tissue|Organ|DNA", "Tissue"},
		{"Science", "hard", "fill_blank", "Boyle's law relates pressure and ____.", "", "volume"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	res, err := importer.Import("bank.XLSX", buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d (errors: %v)", len(res.Questions), res.Errors)
	}
	if res.Questions[1].Kind != questionbank.KindFillBlank || res.Questions[1].Answer != "volume" {
		t.Errorf("unexpected fill blank question %+v", res.Questions[1])
	}
}

func TestImport_UnsupportedFormat(t *testing.T) {
	_, err := importer.Import("bank.pdf", strings.NewReader(""))
	if !errors.Is(err, importer.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestImport_HeaderOnly(t *testing.T) {
	res, err := importer.Import("bank.csv", strings.NewReader(header))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TotalProcessed != 0 || len(res.Questions) != 0 {
		t.Errorf("expected empty result, got %+v", res)
	}
}
