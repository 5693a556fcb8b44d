package storage

import (
	"strconv"
	"strings"
	"testing"

	"github.com/listing-sync/internal/models"
)

func TestListingColumnsAndArgsStayInLockstep(t *testing.T) {
	args := listingArgs(&models.Listing{ListingID: "SR1"})
	if len(args) != len(listingColumns) {
		t.Fatalf("listingArgs returns %d values for %d columns", len(args), len(listingColumns))
	}

	seen := make(map[string]bool, len(listingColumns))
	for _, col := range listingColumns {
		if seen[col] {
			t.Errorf("duplicate column %q", col)
		}
		seen[col] = true
	}
	if seen[photoTimeColumn] {
		t.Errorf("%s must not be part of the fixed column list", photoTimeColumn)
	}
}

func TestBuildUpsertSQL(t *testing.T) {
	sql := buildUpsertSQL(false)

	if !strings.HasPrefix(sql, "INSERT INTO listing (") {
		t.Errorf("unexpected statement prefix: %s", sql[:40])
	}
	if !strings.Contains(sql, "ON CONFLICT (listing_id) DO UPDATE SET") {
		t.Error("expected replace-on-conflict clause")
	}
	if strings.Contains(sql, "listing_id = EXCLUDED.listing_id") {
		t.Error("conflict key must not be part of the update list")
	}
	if !strings.Contains(sql, "city = EXCLUDED.city") {
		t.Error("expected every data column to be overwritten from the new row")
	}
	if strings.Contains(sql, photoTimeColumn) {
		t.Error("base statement must not mention photo_time")
	}

	wantLast := "$" + strconv.Itoa(len(listingColumns))
	if !strings.Contains(sql, wantLast+")") {
		t.Errorf("expected %d placeholders", len(listingColumns))
	}
}

func TestBuildUpsertSQLWithPhotoTime(t *testing.T) {
	sql := buildUpsertSQL(true)

	if !strings.Contains(sql, ", photo_time)") {
		t.Error("expected photo_time appended to the column list")
	}
	if !strings.Contains(sql, "photo_time = EXCLUDED.photo_time") {
		t.Error("expected photo_time in the update list")
	}
	wantLast := "$" + strconv.Itoa(len(listingColumns)+1)
	if !strings.Contains(sql, wantLast+")") {
		t.Errorf("expected %d placeholders", len(listingColumns)+1)
	}

	// Building the variant must not mutate the shared column list.
	if listingColumns[len(listingColumns)-1] == photoTimeColumn {
		t.Error("shared column list was mutated")
	}
}

func TestBuildSearchWhere(t *testing.T) {
	tests := []struct {
		name       string
		params     *models.PropertySearchParams
		wantClause string
		wantArgs   int
	}{
		{
			name:       "no filters",
			params:     &models.PropertySearchParams{},
			wantClause: "",
			wantArgs:   0,
		},
		{
			name:       "city only",
			params:     &models.PropertySearchParams{City: "Santa Clarita"},
			wantClause: " WHERE LOWER(city) = LOWER($1)",
			wantArgs:   1,
		},
		{
			name: "price window and bedrooms",
			params: &models.PropertySearchParams{
				MinPrice: 500000,
				MaxPrice: 900000,
				Bedrooms: 3,
			},
			wantClause: " WHERE list_price >= $1 AND list_price <= $2 AND bedrooms_total >= $3",
			wantArgs:   3,
		},
		{
			name:       "keyword",
			params:     &models.PropertySearchParams{Keyword: "pool"},
			wantClause: " WHERE public_remarks ILIKE '%' || $1 || '%'",
			wantArgs:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := buildSearchWhere(tt.params)
			if where != tt.wantClause {
				t.Errorf("where = %q, want %q", where, tt.wantClause)
			}
			if len(args) != tt.wantArgs {
				t.Errorf("got %d args, want %d", len(args), tt.wantArgs)
			}
		})
	}
}
