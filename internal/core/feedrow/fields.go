package feedrow

// Реестр канонических полей входного контракта
var (
	ExternalID        = FieldSpec{Name: "external_id", Aliases: []string{"id", "externalId"}}
	Title             = FieldSpec{Name: "title", Aliases: []string{"name"}}
	Category          = FieldSpec{Name: "category"}
	DealType          = FieldSpec{Name: "deal_type", Aliases: []string{"dealType"}}
	Bedrooms          = FieldSpec{Name: "bedrooms", Aliases: []string{"rooms"}}
	Price             = FieldSpec{Name: "price"}
	AreaTotal         = FieldSpec{Name: "area_total", Aliases: []string{"area"}}
	District          = FieldSpec{Name: "district", Aliases: []string{"region"}}
	Metro             = FieldSpec{Name: "metro"}
	Images            = FieldSpec{Name: "images", Aliases: []string{"image_urls", "photos"}}
	Status            = FieldSpec{Name: "status"}
	ComplexExternalID = FieldSpec{Name: "complex_external_id", Aliases: []string{"complexExternalId", "complex_id", "building-name", "yandex-building-id"}}
	ComplexTitle      = FieldSpec{Name: "complex_title", Aliases: []string{"building-name", "complex_name", "zhk_name", "complexName"}}
	PriceFrom         = FieldSpec{Name: "price_from", Aliases: []string{"priceFrom", "price_min"}}
	AreaFrom          = FieldSpec{Name: "area_from", Aliases: []string{"areaFrom", "area_min"}}
	Developer         = FieldSpec{Name: "developer"}
	HandoverDate      = FieldSpec{Name: "handover_date", Aliases: []string{"handoverDate"}}
	LotNumber         = FieldSpec{Name: "lot_number", Aliases: []string{"lotNumber"}}
	Description       = FieldSpec{Name: "description"}
	Latitude          = FieldSpec{Name: "latitude", Aliases: []string{"lat", "geo_lat"}}
	Longitude         = FieldSpec{Name: "longitude", Aliases: []string{"lon", "lng", "geo_lon"}}
	Floor             = FieldSpec{Name: "floor"}
	FloorsTotal       = FieldSpec{Name: "floors_total", Aliases: []string{"floorsTotal"}}
	Renovation        = FieldSpec{Name: "renovation"}
)

// Fields - все канонические поля; используется для проверки конфигурации маппинга
var Fields = []FieldSpec{
	ExternalID, Title, Category, DealType, Bedrooms, Price, AreaTotal, District, Metro, Images,
	Status, ComplexExternalID, ComplexTitle, PriceFrom, AreaFrom, Developer, HandoverDate,
	LotNumber, Description, Latitude, Longitude, Floor, FloorsTotal, Renovation,
}

// IsCanonical сообщает, является ли name каноническим именем поля
func IsCanonical(name string) bool {
	for _, f := range Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}
