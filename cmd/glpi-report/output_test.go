package main

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/lorrc/glpi-dashboard/internal/core/domain"
)

func TestPrintReport(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	printReport(&buf, &domain.Report{
		Strategy: "via_user",
		Rows: []domain.ReportRow{
			{TicketID: "10", Title: "VPN", Status: "2", GroupID: "3", GroupName: "Redes"},
			{TicketID: "11", Title: "Email", Status: "1", GroupID: domain.NotAvailable, GroupName: domain.NotAvailable},
		},
		Processed: 2,
	})

	out := buf.String()
	assert.Contains(t, out, "--- Tabela de Resultados ---")
	assert.Contains(t, out, "| Ticket ID | Título | Status | Group ID | Nome do Grupo |\n|---|---|---|---|---|\n")
	assert.Contains(t, out, "| 10 | VPN | 2 | 3 | Redes |")
	assert.Contains(t, out, "Total de Tickets processados: 2\n")
	assert.Contains(t, out, "Tickets com atribuições de grupo encontradas: 1\n")
	assert.Contains(t, out, "Tickets sem grupo: 1\n")
}

func TestPrintReport_Empty(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	printReport(&buf, &domain.Report{Strategy: "direct"})

	out := buf.String()
	assert.Contains(t, out, "Nenhum ticket processado para gerar a tabela.")
	assert.NotContains(t, out, "Sumário")
}
