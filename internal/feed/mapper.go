package feed

import (
	"encoding/json"
	"time"

	"github.com/listing-sync/internal/models"
)

// Timestamp layouts seen in the feed, tried in order. Unparsable values map
// to nil, never to a zero-value sentinel.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// MapProperty transforms one remote record into the local listing schema.
// It is a pure function and never fails: every remote field is optional and
// coerced null-safely.
func MapProperty(p *Property) *models.Listing {
	l := &models.Listing{
		ListingID: stringOrEmpty(p.ListingKey),
		DisplayID: p.ListingKey,

		Address:            p.UnparsedAddress,
		StreetName:         p.StreetName,
		City:               p.City,
		PostalCity:         p.PostalCity,
		State:              p.StateOrProvince,
		Zip:                p.PostalCode,
		CountyOrParish:     p.CountyOrParish,
		CountrySubdivision: p.CountrySubdivision,
		SubdivisionName:    p.SubdivisionName,
		ParcelNumber:       p.ParcelNumber,
		UniversalParcelID:  p.UniversalParcelId,
		TaxLot:             p.TaxLot,
		Latitude:           p.Latitude,
		Longitude:          p.Longitude,

		PropertyType:              p.PropertyType,
		PropertySubType:           p.PropertySubType,
		PropertySubTypeAdditional: flexToString(p.PropertySubTypeAdditional),
		MlsStatus:                 p.MlsStatus,
		StandardStatus:            p.StandardStatus,
		PreviousStandardStatus:    p.PreviousStandardStatus,
		SpecialListingConditions:  flexToString(p.SpecialListingConditions),
		ListingTerms:              flexToString(p.ListingTerms),
		OccupantType:              p.OccupantType,
		Disclosures:               flexToString(p.Disclosures),
		PropertyCondition:         flexToString(p.PropertyCondition),

		ListPrice:         p.ListPrice,
		PreviousListPrice: p.PreviousListPrice,

		BedroomsTotal:         p.BedroomsTotal,
		BathroomsTotalInteger: p.BathroomsTotalInteger,
		BathroomsHalf:         p.BathroomsHalf,
		MainLevelBedrooms:     p.MainLevelBedrooms,
		LivingArea:            p.LivingArea,
		LivingAreaUnits:       p.LivingAreaUnits,
		LivingAreaSource:      p.LivingAreaSource,
		YearBuilt:             p.YearBuilt,
		Levels:                flexToString(p.Levels),
		StoriesTotal:          p.StoriesTotal,
		EntryLevel:            p.EntryLevel,
		EntryLocation:         p.EntryLocation,
		NumberOfUnitsTotal:    p.NumberOfUnitsTotal,
		StructureType:         flexToString(p.StructureType),
		ArchitecturalStyle:    flexToString(p.ArchitecturalStyle),
		CommonWalls:           flexToString(p.CommonWalls),
		CommonInterest:        flexToString(p.CommonInterest),
		PropertyAttachedYN:    p.PropertyAttachedYN,
		NewConstructionYN:     p.NewConstructionYN,
		RoomType:              flexToString(p.RoomType),

		LotSizeArea:         p.LotSizeArea,
		LotSizeAcres:        p.LotSizeAcres,
		LotSizeSquareFeet:   p.LotSizeSquareFeet,
		LotSizeUnits:        p.LotSizeUnits,
		LotFeatures:         flexToString(p.LotFeatures),
		AdditionalParcelsYN: p.AdditionalParcelsYN,
		ElevationUnits:      p.ElevationUnits,

		GarageYN:          p.GarageYN,
		AttachedGarageYN:  p.AttachedGarageYN,
		GarageSpaces:      p.GarageSpaces,
		OpenParkingSpaces: p.OpenParkingSpaces,

		InteriorFeatures:  flexToString(p.InteriorFeatures),
		Flooring:          flexToString(p.Flooring),
		Appliances:        flexToString(p.Appliances),
		FireplaceYN:       p.FireplaceYN,
		FireplaceFeatures: flexToString(p.FireplaceFeatures),
		HeatingYN:         p.HeatingYN,
		Heating:           flexToString(p.Heating),
		CoolingYN:         p.CoolingYN,
		Cooling:           flexToString(p.Cooling),

		ViewYN:                p.ViewYN,
		View:                  flexToString(p.View),
		PoolPrivateYN:         p.PoolPrivateYN,
		PoolFeatures:          flexToString(p.PoolFeatures),
		SpaYN:                 p.SpaYN,
		SpaFeatures:           flexToString(p.SpaFeatures),
		PatioAndPorchFeatures: flexToString(p.PatioAndPorchFeatures),
		Fencing:               flexToString(p.Fencing),
		Roof:                  flexToString(p.Roof),
		SecurityFeatures:      flexToString(p.SecurityFeatures),
		WaterSource:           flexToString(p.WaterSource),

		CommunityFeatures:        flexToString(p.CommunityFeatures),
		SeniorCommunityYN:        p.SeniorCommunityYN,
		LandLeaseYN:              p.LandLeaseYN,
		AssociationYN:            p.AssociationYN,
		AssociationName:          p.AssociationName,
		AssociationFee:           p.AssociationFee,
		AssociationFeeFrequency:  p.AssociationFeeFrequency,
		AssociationFee2Frequency: p.AssociationFee2Frequency,
		AssociationAmenities:     flexToString(p.AssociationAmenities),
		HighSchoolDistrict:       p.HighSchoolDistrict,

		DaysOnMarket:                        p.DaysOnMarket,
		CumulativeDaysOnMarket:              p.CumulativeDaysOnMarket,
		DaysOnMarketReplication:             p.DaysOnMarketReplication,
		DaysOnMarketReplicationDate:         toDate(p.DaysOnMarketReplicationDate),
		DaysOnMarketReplicationIncreasingYN: p.DaysOnMarketReplicationIncreasingYN,

		ListAgentKey:         p.ListAgentKey,
		ListAgentFullName:    p.ListAgentFullName,
		ListAgentFirstName:   p.ListAgentFirstName,
		ListAgentLastName:    p.ListAgentLastName,
		ListAgentEmail:       p.ListAgentEmail,
		ListAgentDirectPhone: p.ListAgentDirectPhone,
		ListAgentOfficePhone: p.ListAgentOfficePhone,
		ListAgentAOR:         p.ListAgentAOR,
		CoListAgentFullName:  p.CoListAgentFullName,
		ListOfficeName:       p.ListOfficeName,
		ListOfficeEmail:      p.ListOfficeEmail,

		PublicRemarks: p.PublicRemarks,
		Photos:        flattenMedia(p.Media),
		PhotosCount:   p.PhotosCount,

		ModificationTimestamp:  toDateTime(p.ModificationTimestamp),
		ListingContractDate:    toDate(p.ListingContractDate),
		OnMarketDate:           toDate(p.OnMarketDate),
		BackOnMarketDate:       toDate(p.BackOnMarketDate),
		StatusChangeTimestamp:  toDateTime(p.StatusChangeTimestamp),
		PriceChangeTimestamp:   toDateTime(p.PriceChangeTimestamp),
		MajorChangeTimestamp:   toDateTime(p.MajorChangeTimestamp),
		OriginalEntryTimestamp: toDateTime(p.OriginalEntryTimestamp),
		HumanModifiedYN:        p.HumanModifiedYN,
	}

	// PhotosChangeTimestamp is tri-state: an absent field must leave the
	// local photo_time column untouched, so the presence flag is only
	// raised when the payload carried a value.
	if p.PhotosChangeTimestamp != nil && *p.PhotosChangeTimestamp != "" {
		l.PhotoTime = toDateTime(p.PhotosChangeTimestamp)
		l.PhotoTimeSet = true
	}

	return l
}

// flattenMedia collects the ordered media URLs into a JSON array value.
// Absent or empty media yields nil, never an empty string.
func flattenMedia(media []Medium) *string {
	var urls []string
	for _, m := range media {
		if m.MediaURL != nil && *m.MediaURL != "" {
			urls = append(urls, *m.MediaURL)
		}
	}
	if len(urls) == 0 {
		return nil
	}

	encoded, err := json.Marshal(urls)
	if err != nil {
		return nil
	}
	s := string(encoded)
	return &s
}

// toDateTime parses an upstream timestamp string, nil when absent or
// unparsable.
func toDateTime(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, *s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// toDate parses an upstream date string, truncated to midnight UTC.
func toDate(s *string) *time.Time {
	t := toDateTime(s)
	if t == nil {
		return nil
	}
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}

func flexToString(f *FlexString) *string {
	if f == nil {
		return nil
	}
	s := string(*f)
	return &s
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
