package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	apperrors "github.com/listing-sync/internal/errors"
	"github.com/listing-sync/internal/models"
)

// listingColumns is the fixed column list for the listing upsert, in the
// order produced by listingArgs. photo_time is handled separately because it
// is only written when the upstream payload carried a value.
var listingColumns = []string{
	"listing_id", "display_id",
	"address", "street_name", "city", "postal_city", "state", "zip",
	"county_or_parish", "country_subdivision", "subdivision_name",
	"parcel_number", "universal_parcel_id", "tax_lot", "latitude", "longitude",
	"property_type", "property_sub_type", "property_sub_type_additional",
	"mls_status", "standard_status", "previous_standard_status",
	"special_listing_conditions", "listing_terms", "occupant_type",
	"disclosures", "property_condition",
	"list_price", "previous_list_price",
	"bedrooms_total", "bathrooms_total_integer", "bathrooms_half",
	"main_level_bedrooms", "living_area", "living_area_units",
	"living_area_source", "year_built", "levels", "stories_total",
	"entry_level", "entry_location", "number_of_units_total",
	"structure_type", "architectural_style", "common_walls",
	"common_interest", "property_attached_yn", "new_construction_yn",
	"room_type",
	"lot_size_area", "lot_size_acres", "lot_size_square_feet",
	"lot_size_units", "lot_features", "additional_parcels_yn",
	"elevation_units",
	"garage_yn", "attached_garage_yn", "garage_spaces", "open_parking_spaces",
	"interior_features", "flooring", "appliances", "fireplace_yn",
	"fireplace_features", "heating_yn", "heating", "cooling_yn", "cooling",
	"view_yn", "view", "pool_private_yn", "pool_features", "spa_yn",
	"spa_features", "patio_and_porch_features", "fencing", "roof",
	"security_features", "water_source",
	"community_features", "senior_community_yn", "land_lease_yn",
	"association_yn", "association_name", "association_fee",
	"association_fee_frequency", "association_fee2_frequency",
	"association_amenities", "high_school_district",
	"days_on_market", "cumulative_days_on_market",
	"days_on_market_replication", "days_on_market_replication_date",
	"days_on_market_replication_increasing_yn",
	"list_agent_key", "list_agent_full_name", "list_agent_first_name",
	"list_agent_last_name", "list_agent_email", "list_agent_direct_phone",
	"list_agent_office_phone", "list_agent_aor", "co_list_agent_full_name",
	"list_office_name", "list_office_email",
	"public_remarks", "photos", "photos_count",
	"modification_timestamp", "listing_contract_date", "on_market_date",
	"back_on_market_date", "status_change_timestamp",
	"price_change_timestamp", "major_change_timestamp",
	"original_entry_timestamp", "human_modified_yn",
}

const photoTimeColumn = "photo_time"

// listingArgs returns the values for listingColumns, in order.
func listingArgs(l *models.Listing) []interface{} {
	return []interface{}{
		l.ListingID, l.DisplayID,
		l.Address, l.StreetName, l.City, l.PostalCity, l.State, l.Zip,
		l.CountyOrParish, l.CountrySubdivision, l.SubdivisionName,
		l.ParcelNumber, l.UniversalParcelID, l.TaxLot, l.Latitude, l.Longitude,
		l.PropertyType, l.PropertySubType, l.PropertySubTypeAdditional,
		l.MlsStatus, l.StandardStatus, l.PreviousStandardStatus,
		l.SpecialListingConditions, l.ListingTerms, l.OccupantType,
		l.Disclosures, l.PropertyCondition,
		l.ListPrice, l.PreviousListPrice,
		l.BedroomsTotal, l.BathroomsTotalInteger, l.BathroomsHalf,
		l.MainLevelBedrooms, l.LivingArea, l.LivingAreaUnits,
		l.LivingAreaSource, l.YearBuilt, l.Levels, l.StoriesTotal,
		l.EntryLevel, l.EntryLocation, l.NumberOfUnitsTotal,
		l.StructureType, l.ArchitecturalStyle, l.CommonWalls,
		l.CommonInterest, l.PropertyAttachedYN, l.NewConstructionYN,
		l.RoomType,
		l.LotSizeArea, l.LotSizeAcres, l.LotSizeSquareFeet,
		l.LotSizeUnits, l.LotFeatures, l.AdditionalParcelsYN,
		l.ElevationUnits,
		l.GarageYN, l.AttachedGarageYN, l.GarageSpaces, l.OpenParkingSpaces,
		l.InteriorFeatures, l.Flooring, l.Appliances, l.FireplaceYN,
		l.FireplaceFeatures, l.HeatingYN, l.Heating, l.CoolingYN, l.Cooling,
		l.ViewYN, l.View, l.PoolPrivateYN, l.PoolFeatures, l.SpaYN,
		l.SpaFeatures, l.PatioAndPorchFeatures, l.Fencing, l.Roof,
		l.SecurityFeatures, l.WaterSource,
		l.CommunityFeatures, l.SeniorCommunityYN, l.LandLeaseYN,
		l.AssociationYN, l.AssociationName, l.AssociationFee,
		l.AssociationFeeFrequency, l.AssociationFee2Frequency,
		l.AssociationAmenities, l.HighSchoolDistrict,
		l.DaysOnMarket, l.CumulativeDaysOnMarket,
		l.DaysOnMarketReplication, l.DaysOnMarketReplicationDate,
		l.DaysOnMarketReplicationIncreasingYN,
		l.ListAgentKey, l.ListAgentFullName, l.ListAgentFirstName,
		l.ListAgentLastName, l.ListAgentEmail, l.ListAgentDirectPhone,
		l.ListAgentOfficePhone, l.ListAgentAOR, l.CoListAgentFullName,
		l.ListOfficeName, l.ListOfficeEmail,
		l.PublicRemarks, l.Photos, l.PhotosCount,
		l.ModificationTimestamp, l.ListingContractDate, l.OnMarketDate,
		l.BackOnMarketDate, l.StatusChangeTimestamp,
		l.PriceChangeTimestamp, l.MajorChangeTimestamp,
		l.OriginalEntryTimestamp, l.HumanModifiedYN,
	}
}

// buildUpsertSQL builds the full replace-on-conflict statement: every column
// except the identifier is overwritten with the newly supplied value.
func buildUpsertSQL(withPhotoTime bool) string {
	cols := listingColumns
	if withPhotoTime {
		cols = append(append([]string(nil), listingColumns...), photoTimeColumn)
	}

	placeholders := make([]string, len(cols))
	updates := make([]string, 0, len(cols)-1)
	for i, col := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		if col != "listing_id" {
			updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
		}
	}

	return fmt.Sprintf(
		"INSERT INTO listing (%s) VALUES (%s) ON CONFLICT (listing_id) DO UPDATE SET %s",
		strings.Join(cols, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(updates, ", "),
	)
}

var (
	upsertSQL          = buildUpsertSQL(false)
	upsertWithPhotoSQL = buildUpsertSQL(true)
)

// ListingRepository handles listing persistence and read queries
type ListingRepository struct {
	db *PostgresDB
}

// NewListingRepository creates a new listing repository
func NewListingRepository(db *PostgresDB) *ListingRepository {
	return &ListingRepository{db: db}
}

// Upsert inserts or fully replaces one listing keyed by listing_id. A field
// mapped to nil this cycle nulls out a previously non-null value; the one
// exception is photo_time, omitted from the statement when the payload did
// not carry it.
func (r *ListingRepository) Upsert(ctx context.Context, l *models.Listing) error {
	if l.ListingID == "" {
		return apperrors.NewInvalidParameterError("listing_id", "cannot be empty")
	}

	query := upsertSQL
	args := listingArgs(l)
	if l.PhotoTimeSet {
		query = upsertWithPhotoSQL
		args = append(args, l.PhotoTime)
	}

	if _, err := r.db.Pool().Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to upsert listing %s: %w", l.ListingID, err)
	}
	return nil
}

// propertyViewSelect is the projection served to the frontend.
const propertyViewSelect = `
	SELECT listing_id,
		   COALESCE(address, ''),
		   COALESCE(city, ''),
		   COALESCE(state, ''),
		   COALESCE(zip, ''),
		   COALESCE(list_price, 0),
		   COALESCE(bedrooms_total, 0),
		   COALESCE(bathrooms_total_integer, 0),
		   COALESCE(living_area, 0),
		   COALESCE(lot_size_acres, 0),
		   COALESCE(year_built, 0),
		   COALESCE(property_type, ''),
		   COALESCE(mls_status, ''),
		   COALESCE(public_remarks, ''),
		   photos,
		   listing_contract_date,
		   COALESCE(latitude, 0),
		   COALESCE(longitude, 0)
	FROM listing
`

// Search returns one page of listings matching the frontend's filters,
// newest contract date first.
func (r *ListingRepository) Search(ctx context.Context, params *models.PropertySearchParams) (*models.PropertyResponse, error) {
	where, args := buildSearchWhere(params)

	var total int
	countQuery := "SELECT COUNT(*) FROM listing" + where
	if err := r.db.Pool().QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count listings: %w", err)
	}

	offset := (params.Page - 1) * params.Limit
	query := fmt.Sprintf(
		"%s%s ORDER BY listing_contract_date DESC NULLS LAST, listing_id DESC LIMIT $%d OFFSET $%d",
		propertyViewSelect, where, len(args)+1, len(args)+2,
	)
	args = append(args, params.Limit, offset)

	rows, err := r.db.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer rows.Close()

	properties := []models.PropertyView{}
	for rows.Next() {
		view, err := scanPropertyView(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		properties = append(properties, *view)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read listings: %w", err)
	}

	totalPages := 0
	if params.Limit > 0 {
		totalPages = (total + params.Limit - 1) / params.Limit
	}

	return &models.PropertyResponse{
		Properties: properties,
		Total:      total,
		Page:       params.Page,
		Limit:      params.Limit,
		TotalPages: totalPages,
	}, nil
}

// GetByID returns one listing projection by its remote identifier.
func (r *ListingRepository) GetByID(ctx context.Context, listingID string) (*models.PropertyView, error) {
	row := r.db.Pool().QueryRow(ctx, propertyViewSelect+" WHERE listing_id = $1", listingID)
	view, err := scanPropertyView(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("listing", listingID)
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	return view, nil
}

// InsightsSummary aggregates the current inventory for the insights page.
func (r *ListingRepository) InsightsSummary(ctx context.Context) (*models.InsightsSummary, error) {
	query := `
		SELECT COUNT(*),
			   COALESCE(MIN(list_price), 0),
			   COALESCE(AVG(list_price), 0),
			   COALESCE(MAX(list_price), 0),
			   COALESCE(AVG(list_price / NULLIF(living_area, 0)), 0)
		FROM listing
		WHERE list_price IS NOT NULL
	`

	var summary models.InsightsSummary
	err := r.db.Pool().QueryRow(ctx, query).Scan(
		&summary.ActiveListings,
		&summary.MinPrice,
		&summary.AvgPrice,
		&summary.MaxPrice,
		&summary.AvgPricePerSqFt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate insights: %w", err)
	}
	return &summary, nil
}

// buildSearchWhere translates search params to a WHERE clause with
// positional args.
func buildSearchWhere(params *models.PropertySearchParams) (string, []interface{}) {
	clauses := []string{}
	args := []interface{}{}

	add := func(clause string, value interface{}) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if params.City != "" {
		add("LOWER(city) = LOWER($%d)", params.City)
	}
	if params.Zip != "" {
		add("zip = $%d", params.Zip)
	}
	if params.PropertyType != "" {
		add("property_type = $%d", params.PropertyType)
	}
	if params.MinPrice > 0 {
		add("list_price >= $%d", params.MinPrice)
	}
	if params.MaxPrice > 0 {
		add("list_price <= $%d", params.MaxPrice)
	}
	if params.Bedrooms > 0 {
		add("bedrooms_total >= $%d", params.Bedrooms)
	}
	if params.Bathrooms > 0 {
		add("bathrooms_total_integer >= $%d", params.Bathrooms)
	}
	if params.Keyword != "" {
		add("public_remarks ILIKE '%%' || $%d || '%%'", params.Keyword)
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// scanPropertyView scans one propertyViewSelect row.
func scanPropertyView(row pgx.Row) (*models.PropertyView, error) {
	var view models.PropertyView
	var photos *string

	err := row.Scan(
		&view.ListingID,
		&view.Address,
		&view.City,
		&view.State,
		&view.Zip,
		&view.Price,
		&view.Bedrooms,
		&view.Bathrooms,
		&view.LivingArea,
		&view.LotSizeAcres,
		&view.YearBuilt,
		&view.PropertyType,
		&view.Status,
		&view.Remarks,
		&photos,
		&view.ListingDate,
		&view.Latitude,
		&view.Longitude,
	)
	if err != nil {
		return nil, err
	}

	if photos != nil {
		_ = json.Unmarshal([]byte(*photos), &view.Photos) // nolint:errcheck // malformed photos render as empty
	}
	if view.Photos == nil {
		view.Photos = []string{}
	}
	return &view, nil
}
