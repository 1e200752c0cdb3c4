package domain

import "github.com/mmcloughlin/geohash"

// GeohashPrecision - 9 символов, ячейка около 5x5 м
const GeohashPrecision = 9

// ValidCoordinates проверяет диапазоны широты и долготы.
// Точка (0, 0) в фидах означает "не заполнено" и не принимается.
func ValidCoordinates(lat, lon float64) bool {
	if lat == 0 && lon == 0 {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// Geohash кодирует координаты для поиска по соседним ячейкам
func Geohash(lat, lon float64) string {
	return geohash.EncodeWithPrecision(lat, lon, GeohashPrecision)
}
