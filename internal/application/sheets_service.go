package application

import (
	"context"
	"fmt"
	"sync"

	"marcador/pkg/sheets"
)

type SheetsService interface {
	EnsureSheetExists(ctx context.Context) (string, error)
	ReplaceRows(ctx context.Context, rows [][]interface{}) error
}

// SheetsServiceImpl owns one spreadsheet. It is created and shared on
// first use unless an existing id was configured.
type SheetsServiceImpl struct {
	client     sheets.Client
	ownerEmail string

	mu            sync.Mutex
	spreadsheetID string
}

func NewSheetsServiceImpl(client sheets.Client, spreadsheetID, ownerEmail string) *SheetsServiceImpl {
	return &SheetsServiceImpl{
		client:        client,
		ownerEmail:    ownerEmail,
		spreadsheetID: spreadsheetID,
	}
}

func (s *SheetsServiceImpl) EnsureSheetExists(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.spreadsheetID != "" {
		return spreadsheetURL(s.spreadsheetID), nil
	}

	id, url, err := s.client.CreateSpreadsheet(ctx, defaultSheetTitle)
	if err != nil {
		return "", fmt.Errorf("failed to create spreadsheet: %w", err)
	}

	if s.ownerEmail != "" {
		if err := s.client.AddPermission(ctx, id, s.ownerEmail, "writer"); err != nil {
			return "", fmt.Errorf("failed to add owner permission: %w", err)
		}
	}
	if err := s.client.MakePublic(ctx, id); err != nil {
		return "", fmt.Errorf("failed to make spreadsheet public: %w", err)
	}

	s.spreadsheetID = id
	return url, nil
}

func (s *SheetsServiceImpl) ReplaceRows(ctx context.Context, rows [][]interface{}) error {
	s.mu.Lock()
	id := s.spreadsheetID
	s.mu.Unlock()

	if id == "" {
		return fmt.Errorf("spreadsheet not initialized, call EnsureSheetExists first")
	}
	if err := s.client.ClearRange(ctx, id, defaultClearRange); err != nil {
		return fmt.Errorf("failed to clear spreadsheet: %w", err)
	}
	if err := s.client.UpdateValues(ctx, id, defaultStartCell, rows); err != nil {
		return fmt.Errorf("failed to update spreadsheet: %w", err)
	}
	return nil
}

func spreadsheetURL(id string) string {
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s", id)
}
