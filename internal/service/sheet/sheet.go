package sheet

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"
	"time"

	"gym_checkin/internal/model"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

type SheetService struct {
	SpreadsheetID string
	SheetID       string
	SheetName     string
	PauseMs       int // пауза между запросами в миллисекундах
	srv           *sheets.Service
	limiterMu     sync.Mutex
	lastCall      time.Time
	colMap        ColumnMap
	loc           *time.Location
}

type ColumnMap map[string]int // например: "Date": 0, "Time": 1, ...

// Порядок колонок листа посещений по умолчанию
func NewDefaultColumnMap() ColumnMap {
	return ColumnMap{
		"N":          0,
		"Date":       1,
		"Time":       2,
		"Name":       3,
		"Phone":      4,
		"Membership": 5,
		"Location":   6,
	}
}

// Создает ColumnMap из строки порядка (например: "Date,Time,Name,Phone")
func CreateColumnMapFromOrder(order string) ColumnMap {
	if order == "" {
		return NewDefaultColumnMap()
	}
	fields := strings.Split(order, ",")
	m := make(ColumnMap)
	for idx, field := range fields {
		m[strings.TrimSpace(field)] = idx
	}
	return m
}

// Конструктор SheetService. loc: часовой пояс для колонок даты и времени, nil = UTC.
func NewSheetService(ctx context.Context, base64Creds, spreadsheetID, sheetID string, pauseMs int, colMap ColumnMap, loc *time.Location) (*SheetService, error) {
	credBytes, err := base64.StdEncoding.DecodeString(base64Creds)
	if err != nil {
		return nil, fmt.Errorf("decode credentials from base64: %w", err)
	}
	creds, err := google.CredentialsFromJSON(ctx, credBytes, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("build credentials from json: %w", err)
	}
	return newSheetService(ctx, spreadsheetID, sheetID, pauseMs, colMap, loc, option.WithCredentials(creds))
}

func newSheetService(ctx context.Context, spreadsheetID, sheetID string, pauseMs int, colMap ColumnMap, loc *time.Location, opts ...option.ClientOption) (*SheetService, error) {
	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("init google sheets service: %w", err)
	}
	if colMap == nil {
		colMap = NewDefaultColumnMap()
	}
	if loc == nil {
		loc = time.UTC
	}

	s := &SheetService{
		SpreadsheetID: spreadsheetID,
		SheetID:       sheetID,
		PauseMs:       pauseMs,
		srv:           srv,
		colMap:        colMap,
		loc:           loc,
	}

	// Получаем имя листа
	if err := s.fetchSheetName(ctx); err != nil {
		return nil, fmt.Errorf("fetch sheet name: %w", err)
	}

	return s, nil
}

func (s *SheetService) fetchSheetName(ctx context.Context) error {
	if err := s.Wait(ctx); err != nil {
		return err
	}

	resp, err := s.srv.Spreadsheets.Get(s.SpreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get spreadsheet: %w", err)
	}

	for _, sheet := range resp.Sheets {
		if sheet.Properties == nil {
			continue
		}
		if fmt.Sprint(sheet.Properties.SheetId) == s.SheetID {
			s.SheetName = sheet.Properties.Title
			return nil
		}
	}

	return fmt.Errorf("sheet with id %s not found", s.SheetID)
}

// Лимитер: выдерживает паузу между запросами
func (s *SheetService) Wait(ctx context.Context) error {
	s.limiterMu.Lock()
	defer s.limiterMu.Unlock()

	pause := time.Duration(s.PauseMs) * time.Millisecond
	if elapsed := time.Since(s.lastCall); elapsed < pause {
		timer := time.NewTimer(pause - elapsed)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.lastCall = time.Now()
	return nil
}

// AppendCheckIn дописывает строку прохода в конец листа
func (s *SheetService) AppendCheckIn(ctx context.Context, checkIn model.CheckIn) error {
	if err := s.Wait(ctx); err != nil {
		return err
	}

	vr := &sheets.ValueRange{
		Values: [][]interface{}{BuildRow(s.colMap, checkIn, s.loc)},
	}

	rangeStr := fmt.Sprintf("%s!A1", s.SheetName)
	_, err := s.srv.Spreadsheets.Values.Append(s.SpreadsheetID, rangeStr, vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append check-in %d to sheet: %w", checkIn.ID, err)
	}
	return nil
}

// BuildRow раскладывает проход по колонкам. Неизвестные колонки остаются пустыми.
func BuildRow(colMap ColumnMap, checkIn model.CheckIn, loc *time.Location) []interface{} {
	width := 0
	for _, idx := range colMap {
		if idx+1 > width {
			width = idx + 1
		}
	}
	values := make([]interface{}, width)
	for i := range values {
		values[i] = ""
	}

	at := checkIn.CheckInTime.In(loc)
	for field, idx := range colMap {
		switch field {
		case "N":
			values[idx] = checkIn.ID
		case "Date":
			values[idx] = at.Format(time.DateOnly)
		case "Time":
			values[idx] = at.Format(time.TimeOnly)
		case "Name":
			values[idx] = checkIn.CustomerName
		case "Phone":
			values[idx] = checkIn.PhoneNumber
		case "Membership":
			values[idx] = checkIn.MembershipType
		case "Location":
			values[idx] = checkIn.LocationID
		case "CustomerID":
			values[idx] = checkIn.CustomerID
		}
	}
	return values
}
