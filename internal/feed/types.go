// Package feed implements the client for the upstream MLS aggregation API:
// OAuth2 token management, OData count/page queries, and the mapping from
// remote property records to the local listing schema.
package feed

import (
	"encoding/json"
	"strconv"
	"strings"
)

// FlexString decodes RESO fields that arrive either as a plain string or as
// a collection. Collections are joined with ", " so the mapper never fails on
// an unexpected shape.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexString) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = FlexString(s)
		return nil
	}

	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*f = FlexString(strings.Join(list, ", "))
		return nil
	}

	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		*f = FlexString(strconv.FormatFloat(n, 'f', -1, 64))
		return nil
	}

	// Unknown shape: keep the raw JSON rather than dropping the record.
	*f = FlexString(string(b))
	return nil
}

// Medium is one entry of the embedded, order-preserved media expansion.
type Medium struct {
	MediaKey *string `json:"MediaKey"`
	MediaURL *string `json:"MediaURL"`
	Order    *int    `json:"Order"`
}

// Property is one remote listing record as returned by the feed. Every field
// is optional; absent fields decode to nil.
type Property struct {
	ListingKey         *string  `json:"ListingKey"`
	UnparsedAddress    *string  `json:"UnparsedAddress"`
	StreetName         *string  `json:"StreetName"`
	City               *string  `json:"City"`
	PostalCity         *string  `json:"PostalCity"`
	StateOrProvince    *string  `json:"StateOrProvince"`
	PostalCode         *string  `json:"PostalCode"`
	CountyOrParish     *string  `json:"CountyOrParish"`
	CountrySubdivision *string  `json:"CountrySubdivision"`
	SubdivisionName    *string  `json:"SubdivisionName"`
	ParcelNumber       *string  `json:"ParcelNumber"`
	UniversalParcelId  *string  `json:"UniversalParcelId"`
	TaxLot             *string  `json:"TaxLot"`
	Latitude           *float64 `json:"Latitude"`
	Longitude          *float64 `json:"Longitude"`

	PropertyType              *string     `json:"PropertyType"`
	PropertySubType           *string     `json:"PropertySubType"`
	PropertySubTypeAdditional *FlexString `json:"PropertySubTypeAdditional"`
	MlsStatus                 *string     `json:"MlsStatus"`
	StandardStatus            *string     `json:"StandardStatus"`
	PreviousStandardStatus    *string     `json:"PreviousStandardStatus"`
	SpecialListingConditions  *FlexString `json:"SpecialListingConditions"`
	ListingTerms              *FlexString `json:"ListingTerms"`
	OccupantType              *string     `json:"OccupantType"`
	Disclosures               *FlexString `json:"Disclosures"`
	PropertyCondition         *FlexString `json:"PropertyCondition"`

	ListPrice         *float64 `json:"ListPrice"`
	PreviousListPrice *float64 `json:"PreviousListPrice"`

	BedroomsTotal         *int        `json:"BedroomsTotal"`
	BathroomsTotalInteger *int        `json:"BathroomsTotalInteger"`
	BathroomsHalf         *int        `json:"BathroomsHalf"`
	MainLevelBedrooms     *int        `json:"MainLevelBedrooms"`
	LivingArea            *float64    `json:"LivingArea"`
	LivingAreaUnits       *string     `json:"LivingAreaUnits"`
	LivingAreaSource      *string     `json:"LivingAreaSource"`
	YearBuilt             *int        `json:"YearBuilt"`
	Levels                *FlexString `json:"Levels"`
	StoriesTotal          *int        `json:"StoriesTotal"`
	EntryLevel            *int        `json:"EntryLevel"`
	EntryLocation         *string     `json:"EntryLocation"`
	NumberOfUnitsTotal    *int        `json:"NumberOfUnitsTotal"`
	StructureType         *FlexString `json:"StructureType"`
	ArchitecturalStyle    *FlexString `json:"ArchitecturalStyle"`
	CommonWalls           *FlexString `json:"CommonWalls"`
	CommonInterest        *FlexString `json:"CommonInterest"`
	PropertyAttachedYN    *bool       `json:"PropertyAttachedYN"`
	NewConstructionYN     *bool       `json:"NewConstructionYN"`
	RoomType              *FlexString `json:"RoomType"`

	LotSizeArea         *float64    `json:"LotSizeArea"`
	LotSizeAcres        *float64    `json:"LotSizeAcres"`
	LotSizeSquareFeet   *float64    `json:"LotSizeSquareFeet"`
	LotSizeUnits        *string     `json:"LotSizeUnits"`
	LotFeatures         *FlexString `json:"LotFeatures"`
	AdditionalParcelsYN *bool       `json:"AdditionalParcelsYN"`
	ElevationUnits      *string     `json:"ElevationUnits"`

	GarageYN          *bool    `json:"GarageYN"`
	AttachedGarageYN  *bool    `json:"AttachedGarageYN"`
	GarageSpaces      *float64 `json:"GarageSpaces"`
	OpenParkingSpaces *float64 `json:"OpenParkingSpaces"`

	InteriorFeatures  *FlexString `json:"InteriorFeatures"`
	Flooring          *FlexString `json:"Flooring"`
	Appliances        *FlexString `json:"Appliances"`
	FireplaceYN       *bool       `json:"FireplaceYN"`
	FireplaceFeatures *FlexString `json:"FireplaceFeatures"`
	HeatingYN         *bool       `json:"HeatingYN"`
	Heating           *FlexString `json:"Heating"`
	CoolingYN         *bool       `json:"CoolingYN"`
	Cooling           *FlexString `json:"Cooling"`

	ViewYN                *bool       `json:"ViewYN"`
	View                  *FlexString `json:"View"`
	PoolPrivateYN         *bool       `json:"PoolPrivateYN"`
	PoolFeatures          *FlexString `json:"PoolFeatures"`
	SpaYN                 *bool       `json:"SpaYN"`
	SpaFeatures           *FlexString `json:"SpaFeatures"`
	PatioAndPorchFeatures *FlexString `json:"PatioAndPorchFeatures"`
	Fencing               *FlexString `json:"Fencing"`
	Roof                  *FlexString `json:"Roof"`
	SecurityFeatures      *FlexString `json:"SecurityFeatures"`
	WaterSource           *FlexString `json:"WaterSource"`

	CommunityFeatures        *FlexString `json:"CommunityFeatures"`
	SeniorCommunityYN        *bool       `json:"SeniorCommunityYN"`
	LandLeaseYN              *bool       `json:"LandLeaseYN"`
	AssociationYN            *bool       `json:"AssociationYN"`
	AssociationName          *string     `json:"AssociationName"`
	AssociationFee           *float64    `json:"AssociationFee"`
	AssociationFeeFrequency  *string     `json:"AssociationFeeFrequency"`
	AssociationFee2Frequency *string     `json:"AssociationFee2Frequency"`
	AssociationAmenities     *FlexString `json:"AssociationAmenities"`
	HighSchoolDistrict       *string     `json:"HighSchoolDistrict"`

	DaysOnMarket                        *int    `json:"DaysOnMarket"`
	CumulativeDaysOnMarket              *int    `json:"CumulativeDaysOnMarket"`
	DaysOnMarketReplication             *int    `json:"DaysOnMarketReplication"`
	DaysOnMarketReplicationDate         *string `json:"DaysOnMarketReplicationDate"`
	DaysOnMarketReplicationIncreasingYN *bool   `json:"DaysOnMarketReplicationIncreasingYN"`

	ListAgentKey         *string `json:"ListAgentKey"`
	ListAgentFullName    *string `json:"ListAgentFullName"`
	ListAgentFirstName   *string `json:"ListAgentFirstName"`
	ListAgentLastName    *string `json:"ListAgentLastName"`
	ListAgentEmail       *string `json:"ListAgentEmail"`
	ListAgentDirectPhone *string `json:"ListAgentDirectPhone"`
	ListAgentOfficePhone *string `json:"ListAgentOfficePhone"`
	ListAgentAOR         *string `json:"ListAgentAOR"`
	CoListAgentFullName  *string `json:"CoListAgentFullName"`
	ListOfficeName       *string `json:"ListOfficeName"`
	ListOfficeEmail      *string `json:"ListOfficeEmail"`

	PublicRemarks *string  `json:"PublicRemarks"`
	PhotosCount   *int     `json:"PhotosCount"`
	Media         []Medium `json:"Media"`

	ModificationTimestamp  *string `json:"ModificationTimestamp"`
	ListingContractDate    *string `json:"ListingContractDate"`
	OnMarketDate           *string `json:"OnMarketDate"`
	BackOnMarketDate       *string `json:"BackOnMarketDate"`
	StatusChangeTimestamp  *string `json:"StatusChangeTimestamp"`
	PriceChangeTimestamp   *string `json:"PriceChangeTimestamp"`
	MajorChangeTimestamp   *string `json:"MajorChangeTimestamp"`
	OriginalEntryTimestamp *string `json:"OriginalEntryTimestamp"`
	PhotosChangeTimestamp  *string `json:"PhotosChangeTimestamp"`
	HumanModifiedYN        *bool   `json:"HumanModifiedYN"`
}

// countResponse is the OData count envelope.
type countResponse struct {
	Count *int `json:"@odata.count"`
}

// pageResponse is the OData result envelope for a page query.
type pageResponse struct {
	Count *int       `json:"@odata.count"`
	Value []Property `json:"value"`
}
