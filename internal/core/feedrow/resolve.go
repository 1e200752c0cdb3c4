package feedrow

// Mapping - таблица явных переопределений источника: канонический ключ -> ключ в строке
type Mapping map[string]string

// Resolve возвращает сырое значение канонического поля.
// Порядок: явный маппинг (побеждает безусловно, даже если ключа в строке нет),
// затем собственное имя поля, затем псевдонимы по порядку.
func Resolve(row Row, field string, mapping Mapping, aliases ...string) (Value, bool) {
	if key, ok := mapping[field]; ok && key != "" {
		v, found := row[key]
		return v, found
	}
	if v, ok := row[field]; ok {
		return v, true
	}
	for _, alias := range aliases {
		if v, ok := row[alias]; ok {
			return v, true
		}
	}
	return Value{}, false
}

// FieldSpec - каноническое поле и упорядоченный список его псевдонимов.
// Новые псевдонимы добавляются в реестр, а не в код.
type FieldSpec struct {
	Name    string
	Aliases []string
}

func (f FieldSpec) Lookup(row Row, mapping Mapping) (Value, bool) {
	return Resolve(row, f.Name, mapping, f.Aliases...)
}

// Present - как Lookup, но null тоже считается отсутствием значения
func (f FieldSpec) Present(row Row, mapping Mapping) (Value, bool) {
	v, ok := f.Lookup(row, mapping)
	if !ok || v.IsNull() {
		return Value{}, false
	}
	return v, true
}

func (f FieldSpec) String(row Row, mapping Mapping) string {
	v, _ := f.Lookup(row, mapping)
	return String(v)
}

func (f FieldSpec) Number(row Row, mapping Mapping) (float64, bool) {
	v, ok := f.Lookup(row, mapping)
	if !ok {
		return 0, false
	}
	return Number(v)
}

func (f FieldSpec) Strings(row Row, mapping Mapping) []string {
	v, _ := f.Lookup(row, mapping)
	return StringArray(v)
}

// Coordinates возвращает пару широта/долгота, только если обе распознаны как числа
func Coordinates(row Row, mapping Mapping) (lat, lon float64, ok bool) {
	lat, latOK := Latitude.Number(row, mapping)
	lon, lonOK := Longitude.Number(row, mapping)
	if !latOK || !lonOK {
		return 0, 0, false
	}
	return lat, lon, true
}
