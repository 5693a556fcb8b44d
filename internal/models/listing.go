// Package models defines the data structures used throughout the listing
// sync service.
package models

import "time"

// Listing is the local representation of one upstream property record.
//
// ListingID is the only required field; every other column is nullable and
// overwritten wholesale on each sync (full replace-on-conflict). The remote
// RESO field feeding each column is the field of the same name unless noted:
//
//	ListingID   <- ListingKey
//	DisplayID   <- ListingKey
//	Address     <- UnparsedAddress
//	Zip         <- PostalCode
//	MlsStatus   <- MlsStatus (also the sync filter)
//	Photos      <- Media[].MediaURL, JSON array ordered by Media Order
//	PhotoTime   <- PhotosChangeTimestamp (written only when present upstream)
type Listing struct {
	ListingID string  `json:"listing_id"`
	DisplayID *string `json:"display_id,omitempty"`

	// Address
	Address            *string  `json:"address,omitempty"`
	StreetName         *string  `json:"street_name,omitempty"`
	City               *string  `json:"city,omitempty"`
	PostalCity         *string  `json:"postal_city,omitempty"`
	State              *string  `json:"state,omitempty"`
	Zip                *string  `json:"zip,omitempty"`
	CountyOrParish     *string  `json:"county_or_parish,omitempty"`
	CountrySubdivision *string  `json:"country_subdivision,omitempty"`
	SubdivisionName    *string  `json:"subdivision_name,omitempty"`
	ParcelNumber       *string  `json:"parcel_number,omitempty"`
	UniversalParcelID  *string  `json:"universal_parcel_id,omitempty"`
	TaxLot             *string  `json:"tax_lot,omitempty"`
	Latitude           *float64 `json:"latitude,omitempty"`
	Longitude          *float64 `json:"longitude,omitempty"`

	// Classification and status
	PropertyType              *string `json:"property_type,omitempty"`
	PropertySubType           *string `json:"property_sub_type,omitempty"`
	PropertySubTypeAdditional *string `json:"property_sub_type_additional,omitempty"`
	MlsStatus                 *string `json:"mls_status,omitempty"`
	StandardStatus            *string `json:"standard_status,omitempty"`
	PreviousStandardStatus    *string `json:"previous_standard_status,omitempty"`
	SpecialListingConditions  *string `json:"special_listing_conditions,omitempty"`
	ListingTerms              *string `json:"listing_terms,omitempty"`
	OccupantType              *string `json:"occupant_type,omitempty"`
	Disclosures               *string `json:"disclosures,omitempty"`
	PropertyCondition         *string `json:"property_condition,omitempty"`

	// Price
	ListPrice         *float64 `json:"list_price,omitempty"`
	PreviousListPrice *float64 `json:"previous_list_price,omitempty"`

	// Structure
	BedroomsTotal         *int     `json:"bedrooms_total,omitempty"`
	BathroomsTotalInteger *int     `json:"bathrooms_total_integer,omitempty"`
	BathroomsHalf         *int     `json:"bathrooms_half,omitempty"`
	MainLevelBedrooms     *int     `json:"main_level_bedrooms,omitempty"`
	LivingArea            *float64 `json:"living_area,omitempty"`
	LivingAreaUnits       *string  `json:"living_area_units,omitempty"`
	LivingAreaSource      *string  `json:"living_area_source,omitempty"`
	YearBuilt             *int     `json:"year_built,omitempty"`
	Levels                *string  `json:"levels,omitempty"`
	StoriesTotal          *int     `json:"stories_total,omitempty"`
	EntryLevel            *int     `json:"entry_level,omitempty"`
	EntryLocation         *string  `json:"entry_location,omitempty"`
	NumberOfUnitsTotal    *int     `json:"number_of_units_total,omitempty"`
	StructureType         *string  `json:"structure_type,omitempty"`
	ArchitecturalStyle    *string  `json:"architectural_style,omitempty"`
	CommonWalls           *string  `json:"common_walls,omitempty"`
	CommonInterest        *string  `json:"common_interest,omitempty"`
	PropertyAttachedYN    *bool    `json:"property_attached_yn,omitempty"`
	NewConstructionYN     *bool    `json:"new_construction_yn,omitempty"`
	RoomType              *string  `json:"room_type,omitempty"`

	// Lot
	LotSizeArea         *float64 `json:"lot_size_area,omitempty"`
	LotSizeAcres        *float64 `json:"lot_size_acres,omitempty"`
	LotSizeSquareFeet   *float64 `json:"lot_size_square_feet,omitempty"`
	LotSizeUnits        *string  `json:"lot_size_units,omitempty"`
	LotFeatures         *string  `json:"lot_features,omitempty"`
	AdditionalParcelsYN *bool    `json:"additional_parcels_yn,omitempty"`
	ElevationUnits      *string  `json:"elevation_units,omitempty"`

	// Parking
	GarageYN          *bool    `json:"garage_yn,omitempty"`
	AttachedGarageYN  *bool    `json:"attached_garage_yn,omitempty"`
	GarageSpaces      *float64 `json:"garage_spaces,omitempty"`
	OpenParkingSpaces *float64 `json:"open_parking_spaces,omitempty"`

	// Interior features
	InteriorFeatures  *string `json:"interior_features,omitempty"`
	Flooring          *string `json:"flooring,omitempty"`
	Appliances        *string `json:"appliances,omitempty"`
	FireplaceYN       *bool   `json:"fireplace_yn,omitempty"`
	FireplaceFeatures *string `json:"fireplace_features,omitempty"`
	HeatingYN         *bool   `json:"heating_yn,omitempty"`
	Heating           *string `json:"heating,omitempty"`
	CoolingYN         *bool   `json:"cooling_yn,omitempty"`
	Cooling           *string `json:"cooling,omitempty"`

	// Exterior features
	ViewYN                *bool   `json:"view_yn,omitempty"`
	View                  *string `json:"view,omitempty"`
	PoolPrivateYN         *bool   `json:"pool_private_yn,omitempty"`
	PoolFeatures          *string `json:"pool_features,omitempty"`
	SpaYN                 *bool   `json:"spa_yn,omitempty"`
	SpaFeatures           *string `json:"spa_features,omitempty"`
	PatioAndPorchFeatures *string `json:"patio_and_porch_features,omitempty"`
	Fencing               *string `json:"fencing,omitempty"`
	Roof                  *string `json:"roof,omitempty"`
	SecurityFeatures      *string `json:"security_features,omitempty"`
	WaterSource           *string `json:"water_source,omitempty"`

	// Community and association
	CommunityFeatures        *string  `json:"community_features,omitempty"`
	SeniorCommunityYN        *bool    `json:"senior_community_yn,omitempty"`
	LandLeaseYN              *bool    `json:"land_lease_yn,omitempty"`
	AssociationYN            *bool    `json:"association_yn,omitempty"`
	AssociationName          *string  `json:"association_name,omitempty"`
	AssociationFee           *float64 `json:"association_fee,omitempty"`
	AssociationFeeFrequency  *string  `json:"association_fee_frequency,omitempty"`
	AssociationFee2Frequency *string  `json:"association_fee2_frequency,omitempty"`
	AssociationAmenities     *string  `json:"association_amenities,omitempty"`
	HighSchoolDistrict       *string  `json:"high_school_district,omitempty"`

	// Market activity
	DaysOnMarket                        *int       `json:"days_on_market,omitempty"`
	CumulativeDaysOnMarket              *int       `json:"cumulative_days_on_market,omitempty"`
	DaysOnMarketReplication             *int       `json:"days_on_market_replication,omitempty"`
	DaysOnMarketReplicationDate         *time.Time `json:"days_on_market_replication_date,omitempty"`
	DaysOnMarketReplicationIncreasingYN *bool      `json:"days_on_market_replication_increasing_yn,omitempty"`

	// Agent and office
	ListAgentKey         *string `json:"list_agent_key,omitempty"`
	ListAgentFullName    *string `json:"list_agent_full_name,omitempty"`
	ListAgentFirstName   *string `json:"list_agent_first_name,omitempty"`
	ListAgentLastName    *string `json:"list_agent_last_name,omitempty"`
	ListAgentEmail       *string `json:"list_agent_email,omitempty"`
	ListAgentDirectPhone *string `json:"list_agent_direct_phone,omitempty"`
	ListAgentOfficePhone *string `json:"list_agent_office_phone,omitempty"`
	ListAgentAOR         *string `json:"list_agent_aor,omitempty"`
	CoListAgentFullName  *string `json:"co_list_agent_full_name,omitempty"`
	ListOfficeName       *string `json:"list_office_name,omitempty"`
	ListOfficeEmail      *string `json:"list_office_email,omitempty"`

	// Remarks and media
	PublicRemarks *string `json:"public_remarks,omitempty"`
	Photos        *string `json:"photos,omitempty"`
	PhotosCount   *int    `json:"photos_count,omitempty"`

	// Timestamps
	ModificationTimestamp  *time.Time `json:"modification_timestamp,omitempty"`
	ListingContractDate    *time.Time `json:"listing_contract_date,omitempty"`
	OnMarketDate           *time.Time `json:"on_market_date,omitempty"`
	BackOnMarketDate       *time.Time `json:"back_on_market_date,omitempty"`
	StatusChangeTimestamp  *time.Time `json:"status_change_timestamp,omitempty"`
	PriceChangeTimestamp   *time.Time `json:"price_change_timestamp,omitempty"`
	MajorChangeTimestamp   *time.Time `json:"major_change_timestamp,omitempty"`
	OriginalEntryTimestamp *time.Time `json:"original_entry_timestamp,omitempty"`
	HumanModifiedYN        *bool      `json:"human_modified_yn,omitempty"`

	// PhotoTime is only written when the upstream payload carried a
	// PhotosChangeTimestamp. When PhotoTimeSet is false the column is left
	// out of the upsert entirely so a prior value survives the sync.
	PhotoTime    *time.Time `json:"photo_time,omitempty"`
	PhotoTimeSet bool       `json:"-"`
}
