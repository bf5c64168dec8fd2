package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"material-market/internal/data/entity"
	"material-market/internal/dto/request"
	"material-market/internal/dto/response"
	"material-market/pkg/utils"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const maxImportRows = 500

var importColumns = []string{"title", "description", "price", "city", "phone"}

// ImportService bulk-creates listings from the first sheet of an xlsx
// workbook. The first row is a header naming the columns; an optional
// "images" column holds comma separated URLs.
type ImportService interface {
	Import(ctx context.Context, p utils.Principal, r io.Reader) (*response.ImportResponse, error)
}

type importService struct {
	listings ListingService
	log      *zap.Logger
}

func NewImportService(listings ListingService, log *zap.Logger) ImportService {
	return &importService{
		listings: listings,
		log:      log.With(zap.String("service", "import")),
	}
}

func (s *importService) Import(ctx context.Context, p utils.Principal, r io.Reader) (*response.ImportResponse, error) {
	if err := RequireRole(p, entity.RoleVendor); err != nil {
		return nil, err
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, invalid("file is not a valid xlsx workbook")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, invalid("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, invalid("sheet has no data rows")
	}
	if len(rows)-1 > maxImportRows {
		return nil, invalid(fmt.Sprintf("at most %d rows per import", maxImportRows))
	}

	header := indexHeader(rows[0])
	for _, col := range importColumns {
		if _, ok := header[col]; !ok {
			return nil, invalid(fmt.Sprintf("missing column %q", col))
		}
	}

	result := &response.ImportResponse{
		Created: make([]response.ListingResponse, 0),
		Failed:  make([]response.ImportRowError, 0),
	}

	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, after header
		if blankRow(row) {
			continue
		}

		req, reason := rowToRequest(header, row)
		if reason != "" {
			result.Failed = append(result.Failed, response.ImportRowError{Row: rowNum, Reason: reason})
			continue
		}

		created, err := s.listings.Create(ctx, p, req)
		if err != nil {
			if errors.Is(err, ErrValidation) {
				result.Failed = append(result.Failed, response.ImportRowError{Row: rowNum, Reason: err.Error()})
				continue
			}
			return nil, fmt.Errorf("import row %d: %w", rowNum, err)
		}
		result.Created = append(result.Created, *created)
	}

	s.log.Info("Listings imported",
		zap.String("vendor_id", p.UserID.String()),
		zap.Int("created", len(result.Created)),
		zap.Int("failed", len(result.Failed)),
	)
	return result, nil
}

func indexHeader(row []string) map[string]int {
	idx := make(map[string]int, len(row))
	for i, name := range row {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return idx
}

func cell(header map[string]int, row []string, col string) string {
	i, ok := header[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func rowToRequest(header map[string]int, row []string) (*request.CreateListingRequest, string) {
	req := &request.CreateListingRequest{
		Title:       cell(header, row, "title"),
		Description: cell(header, row, "description"),
		City:        cell(header, row, "city"),
		Phone:       cell(header, row, "phone"),
	}

	if raw := cell(header, row, "price"); raw != "" {
		price, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
		if err != nil {
			return nil, fmt.Sprintf("price %q is not a number", raw)
		}
		req.Price = &price
	}

	if raw := cell(header, row, "images"); raw != "" {
		req.Images = strings.Split(raw, ",")
	}

	return req, ""
}
