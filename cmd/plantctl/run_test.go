package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, path string, rows [][]interface{}) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cellName, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("CoordinatesToCellName failed: %v", err)
		}
		if err := f.SetSheetRow(sheet, cellName, &row); err != nil {
			t.Fatalf("SetSheetRow failed: %v", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs failed: %v", err)
	}
}

// writeFixtures lays out the electronics plant dataset: two final products
// (ETI, ETF) where ETI is also a component of ETF.
func writeFixtures(t *testing.T, dataDir string) {
	t.Helper()

	writeWorkbook(t, filepath.Join(dataDir, "Estoque.xlsx"), [][]interface{}{
		{"Material", "Em Estoque", "Mínimo", "Custo Medio Unitario", "Imposto Medio Unitario", "Frete Medio Lote", "Leadtime Medio Lote"},
		{"ETI", 5, 5, 80, 0, 0, 5},
		{"ETF", 0, 5, 100, 0, 0, 5},
		{"JOKER", 10, 10, 10, 1, 5, 10},
		{"DAQ", 10, 10, 11, 2, 6, 11},
	})
	writeWorkbook(t, filepath.Join(dataDir, "ETI_BOM.xlsx"), [][]interface{}{
		{"Material", "Quantidade"},
		{"ETI", ""},
		{"JOKER", 1},
		{"DAQ", 1},
	})
	writeWorkbook(t, filepath.Join(dataDir, "ETF_BOM.xlsx"), [][]interface{}{
		{"Material", "Quantidade"},
		{"ETF", ""},
		{"ETI", 1},
		{"JOKER", 1},
	})
	// JOKER's leadtime grows 50%, forcing a replan.
	writeWorkbook(t, filepath.Join(dataDir, "Cotacoes.xlsx"), [][]interface{}{
		{"Material", "Custo Unitario", "Imposto Unitario", "Frete Lote", "Leadtime Lote"},
		{"JOKER", 12, 1, 5, 15},
	})
	writeWorkbook(t, filepath.Join(dataDir, "demanda_recursos.xlsx"), [][]interface{}{
		{"Produto", "OP1", "OP2"},
		{"ETI", 20, 40},
		{"ETF", 30, 30},
	})
	writeWorkbook(t, filepath.Join(dataDir, "capacidade_recursos.xlsx"), [][]interface{}{
		{"Recurso", "OP1", "OP2"},
		{"R1", 480, 480},
	})
}

func TestExecute_FullCycle(t *testing.T) {
	dataDir := t.TempDir()
	outputDir := t.TempDir()
	writeFixtures(t, dataDir)

	runner, err := newRunner(runnerFlags{
		DataDir:   dataDir,
		OutputDir: outputDir,
		Demand:    "ETI=100,ETF=100",
		Date:      "2026-09-01",
		Days:      3,
		Quotes:    "Cotacoes.xlsx",
		CRP:       true,
	})
	if err != nil {
		t.Fatalf("newRunner failed: %v", err)
	}

	if err := runner.Execute(context.Background()); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	cycles, err := filepath.Glob(filepath.Join(outputDir, "ciclo_*"))
	if err != nil || len(cycles) != 1 {
		t.Fatalf("Expected one cycle folder, got %v (%v)", cycles, err)
	}

	// The quote round forces a replan, so both the original and the updated
	// boards are exported alongside the orders, costs and CRP sheets.
	wantFiles := []string{
		"quadro_de_planejamento.xlsx",
		"quadro_de_planejamento_pre-atualizacao.xlsx",
		"quadro_de_planejamento_atualizado.xlsx",
		"custos_estimados.xlsx",
		"custos_estimados_atualizado.xlsx",
		"ordens_de_controle.xlsx",
		"demanda_por_operacao.xlsx",
		"capacidade_de_recursos.xlsx",
	}
	for _, name := range wantFiles {
		if _, err := os.Stat(filepath.Join(cycles[0], name)); err != nil {
			t.Errorf("Expected exported sheet %s: %v", name, err)
		}
	}
}

func TestParseDemand(t *testing.T) {
	demand, err := parseDemand("ETI=100, ETF=150")
	if err != nil {
		t.Fatalf("parseDemand failed: %v", err)
	}
	if len(demand) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(demand))
	}
	if demand["ETI"].String() != "100" || demand["ETF"].String() != "150" {
		t.Errorf("Expected ETI=100 and ETF=150, got %s / %s", demand["ETI"], demand["ETF"])
	}

	if _, err := parseDemand(""); err == nil {
		t.Error("Expected an error for empty demand")
	}
	if _, err := parseDemand("ETI"); err == nil {
		t.Error("Expected an error for a pair without quantity")
	}
	if _, err := parseDemand("ETI=abc"); err == nil {
		t.Error("Expected an error for a non-numeric quantity")
	}
}

func TestNeedsReplan(t *testing.T) {
	if needsReplan([]string{"material GHOST not in ledger, quote ignored"}) {
		t.Error("An unknown-material alert must not force a replan")
	}
	if !needsReplan([]string{"leadtime for JOKER grew from 10 to 15 days: replan needed"}) {
		t.Error("A leadtime alert must force a replan")
	}
}
