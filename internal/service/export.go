package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/LordKnossus/crm-cobranca/internal/clients"
	"github.com/LordKnossus/crm-cobranca/internal/domain"
	"github.com/LordKnossus/crm-cobranca/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ReportStatus is the redis-persisted state of one notes report. Progress
// stays below 100 until the file is stored and its URL is known.
type ReportStatus struct {
	Key      string    `json:"key"`
	Type     string    `json:"type"`
	UserID   int64     `json:"user_id"`
	Filters  any       `json:"filters"`
	Progress float64   `json:"progress"`
	FileURL  *string   `json:"file_url"`
	Error    *string   `json:"error,omitempty"`
	Created  time.Time `json:"created_at"`
}

const (
	reportSetKey = "report_ids"
	reportTTL    = 20 * time.Minute
)

type ExportService struct {
	store   repository.Store
	redis   *clients.RedisClient
	storage clients.ReportStorage
	ws      *clients.WebSocketClient
	now     func() time.Time
}

func NewExportService(
	store repository.Store,
	redis *clients.RedisClient,
	storage clients.ReportStorage,
	ws *clients.WebSocketClient,
) *ExportService {
	return &ExportService{
		store:   store,
		redis:   redis,
		storage: storage,
		ws:      ws,
		now:     time.Now,
	}
}

// noteRow is one spreadsheet line: the note, its display label and the
// resolved customer fields.
type noteRow struct {
	Note             domain.Note
	Label            domain.DisplayLabel
	CustomerName     string
	CustomerDocument string
}

type NoteColumn struct {
	Header string
	Value  func(r noteRow) any
}

func decVal(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func timeVal(p *time.Time) string {
	if p == nil {
		return ""
	}
	return p.Format("02/01/2006 15:04")
}

var noteColumns = map[string]NoteColumn{
	"number": {
		Header: "Número",
		Value:  func(r noteRow) any { return r.Note.Number },
	},
	"customer.name": {
		Header: "Cliente",
		Value:  func(r noteRow) any { return r.CustomerName },
	},
	"customer.document": {
		Header: "Documento",
		Value:  func(r noteRow) any { return r.CustomerDocument },
	},
	"amount": {
		Header: "Valor",
		Value:  func(r noteRow) any { return decVal(r.Note.Amount) },
	},
	"due_date": {
		Header: "Vencimento",
		Value:  func(r noteRow) any { return r.Note.DueDate.Format("02/01/2006") },
	},
	"status": {
		Header: "Situação",
		Value:  func(r noteRow) any { return string(r.Note.Status) },
	},
	"label": {
		Header: "Classificação",
		Value:  func(r noteRow) any { return string(r.Label) },
	},
	"penalty_rate": {
		Header: "Multa (%)",
		Value:  func(r noteRow) any { return decVal(r.Note.PenaltyRate) },
	},
	"interest_rate": {
		Header: "Juros a.m. (%)",
		Value:  func(r noteRow) any { return decVal(r.Note.InterestRate) },
	},
	"items": {
		Header: "Itens",
		Value:  func(r noteRow) any { return strVal(r.Note.Items) },
	},
	"created_at": {
		Header: "Criada em",
		Value:  func(r noteRow) any { return timeVal(r.Note.CreatedAt) },
	},
}

func (s *ExportService) saveReportStatus(ctx context.Context, st *ReportStatus) error {
	if s.redis == nil {
		return nil
	}

	data, err := json.Marshal(st)
	if err != nil {
		return err
	}

	if err := s.redis.Set(ctx, st.Key, string(data), reportTTL); err != nil {
		return err
	}

	return s.redis.SAdd(ctx, reportSetKey, st.Key)
}

// StartNotesExport registers the report in redis and generates it in a
// background goroutine; it returns the report key immediately.
func (s *ExportService) StartNotesExport(
	ctx context.Context,
	selected []string,
	filter repository.NotesFilter,
	userID int64,
) (string, error) {
	if len(selected) == 0 {
		selected = []string{
			"number",
			"customer.name",
			"amount",
			"due_date",
			"status",
		}
	}

	reportID := fmt.Sprintf("reports:%s", uuid.NewString())
	now := s.now()

	status := &ReportStatus{
		Key:      reportID,
		Type:     "notes",
		UserID:   userID,
		Filters:  buildNotesFiltersMap(filter, selected),
		Progress: 0,
		FileURL:  nil,
		Created:  now,
	}

	_ = s.saveReportStatus(ctx, status)

	go s.runNotesExport(context.Background(), reportID, selected, filter, userID, now)

	return reportID, nil
}

func (s *ExportService) runNotesExport(
	ctx context.Context,
	reportID string,
	selected []string,
	filter repository.NotesFilter,
	userID int64,
	createdAt time.Time,
) {
	status := &ReportStatus{
		Key:      reportID,
		Type:     "notes",
		UserID:   userID,
		Filters:  buildNotesFiltersMap(filter, selected),
		Progress: 0,
		FileURL:  nil,
		Created:  createdAt,
	}

	fail := func(msg string) {
		status.Error = &msg
		_ = s.saveReportStatus(ctx, status)
		if s.ws != nil {
			_ = s.ws.NotifyReportFailed(ctx, userID, reportID, msg)
		}
	}

	notes, err := s.store.ListNotes(ctx, filter)
	if err != nil {
		fail("falha ao consultar as notas")
		return
	}

	var cols []NoteColumn
	for _, key := range selected {
		col, ok := noteColumns[key]
		if !ok {
			continue
		}
		cols = append(cols, col)
	}
	if len(cols) == 0 {
		fail("nenhuma coluna válida selecionada")
		return
	}

	now := s.now()

	// each note repeats its customer, so resolve every customer once
	customers := map[int64]*domain.Customer{}
	customerFor := func(id int64) *domain.Customer {
		if c, ok := customers[id]; ok {
			return c
		}
		c, err := s.store.CustomerByID(ctx, id)
		if err != nil {
			c = nil
		}
		customers[id] = c
		return c
	}

	f := excelize.NewFile()
	sheet := "Notas"
	f.SetSheetName(f.GetSheetName(0), sheet)

	_ = f.SetDocProps(&excelize.DocProperties{
		Creator: fmt.Sprintf("user_%d", userID),
	})

	for i, col := range cols {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, col.Header)
	}

	total := len(notes)
	if total > 0 {
		chunkSize := 1000
		rowIdx := 2

		for i, n := range notes {
			row := noteRow{
				Note:  n,
				Label: domain.LabelFor(n.DueDate, now),
			}
			if c := customerFor(n.CustomerID); c != nil {
				row.CustomerName = c.Name
				row.CustomerDocument = c.Document
			}

			for colIdx, col := range cols {
				cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx)
				_ = f.SetCellValue(sheet, cell, col.Value(row))
			}
			rowIdx++

			if (i+1)%chunkSize == 0 || i == total-1 {
				raw := float64(i+1) / float64(total) * 100.0
				progress := math.Round(raw)
				// 100% is reserved for when the file URL exists
				if progress >= 100 {
					progress = 95
				}

				status.Progress = progress
				_ = s.saveReportStatus(ctx, status)

				if s.ws != nil {
					_ = s.ws.NotifyReportProgress(ctx, userID, reportID, progress, "generating")
				}
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		fail("falha ao gerar a planilha")
		return
	}

	fileName := fmt.Sprintf("notas_%s.xlsx", s.now().Format("20060102_150405"))

	status.Progress = 95
	_ = s.saveReportStatus(ctx, status)
	if s.ws != nil {
		_ = s.ws.NotifyReportProgress(ctx, userID, reportID, 95, "uploading")
	}

	key, err := s.storage.Save(ctx, fileName, buf.Bytes())
	if err != nil {
		fail("falha ao armazenar o arquivo")
		return
	}

	url, err := s.storage.URL(ctx, key)
	if err != nil {
		fail("falha ao gerar o endereço do arquivo")
		return
	}

	status.FileURL = &url
	status.Progress = 100
	_ = s.saveReportStatus(ctx, status)

	if s.ws != nil {
		_ = s.ws.NotifyReportProgress(ctx, userID, reportID, 100, "ready")
		_ = s.ws.NotifyReportComplete(ctx, userID, reportID, url, fileName)
	}
}

// GetReports returns the caller's reports still present in redis, newest
// first.
func (s *ExportService) GetReports(ctx context.Context, userID int64) ([]map[string]interface{}, error) {
	if s.redis == nil {
		return nil, errors.New("redis client not configured")
	}

	keys, err := s.redis.SMembers(ctx, reportSetKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get report keys: %w", err)
	}

	var statuses []ReportStatus
	for _, key := range keys {
		data, err := s.redis.Get(ctx, key)
		if err != nil {
			continue
		}

		var status ReportStatus
		if err := json.Unmarshal([]byte(data), &status); err != nil {
			continue
		}

		if status.UserID == userID {
			statuses = append(statuses, status)
		}
	}

	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].Created.After(statuses[j].Created)
	})

	reports := make([]map[string]interface{}, 0, len(statuses))
	for _, status := range statuses {
		reports = append(reports, reportMap(status))
	}

	return reports, nil
}

func (s *ExportService) GetReport(ctx context.Context, reportID string, userID int64) (map[string]interface{}, error) {
	if s.redis == nil {
		return nil, errors.New("redis client not configured")
	}

	data, err := s.redis.Get(ctx, reportID)
	if err != nil {
		return nil, &domain.NotFoundError{Entity: "report", ID: reportID}
	}

	var status ReportStatus
	if err := json.Unmarshal([]byte(data), &status); err != nil {
		return nil, fmt.Errorf("failed to parse report status: %w", err)
	}

	if status.UserID != userID {
		return nil, &domain.NotFoundError{Entity: "report", ID: reportID}
	}

	return reportMap(status), nil
}

func reportMap(status ReportStatus) map[string]interface{} {
	return map[string]interface{}{
		"key":        status.Key,
		"type":       status.Type,
		"user_id":    status.UserID,
		"progress":   status.Progress,
		"file_url":   status.FileURL,
		"error":      status.Error,
		"filters":    status.Filters,
		"created_at": status.Created.Format("02/01/2006 15:04"),
	}
}

func buildNotesFiltersMap(f repository.NotesFilter, fields []string) map[string]interface{} {
	m := map[string]interface{}{}
	if f.Number != nil {
		m["number"] = *f.Number
	} else {
		m["number"] = nil
	}
	if f.CustomerID != nil {
		m["customer_id"] = *f.CustomerID
	} else {
		m["customer_id"] = nil
	}
	if f.Status != nil {
		m["status"] = string(*f.Status)
	} else {
		m["status"] = nil
	}
	if f.DueFrom != nil {
		m["due_from"] = f.DueFrom.Format("2006-01-02")
	} else {
		m["due_from"] = nil
	}
	if f.DueTo != nil {
		m["due_to"] = f.DueTo.Format("2006-01-02")
	} else {
		m["due_to"] = nil
	}
	if f.AmountMin != nil {
		m["amount_min"] = f.AmountMin.StringFixed(2)
	} else {
		m["amount_min"] = nil
	}
	if f.AmountMax != nil {
		m["amount_max"] = f.AmountMax.StringFixed(2)
	} else {
		m["amount_max"] = nil
	}
	m["fields"] = fields
	return m
}
