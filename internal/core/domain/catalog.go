package domain

// Catalog - весь персистентный каталог. Загружается целиком в начале прогона
// и целиком записывается в конце.
type Catalog struct {
	// Version - токен оптимистической блокировки, увеличивается хранилищем при каждой записи
	Version   int64     `json:"version"`
	Listings  []Listing `json:"listings"`
	Complexes []Complex `json:"complexes"`
}

// NewCatalog возвращает пустой каталог (состояние до первой записи)
func NewCatalog() *Catalog {
	return &Catalog{
		Listings:  []Listing{},
		Complexes: []Complex{},
	}
}

// ComplexesBySource индексирует комплексы источника по внешнему ID
func (c *Catalog) ComplexesBySource(sourceID string) map[string]Complex {
	index := make(map[string]Complex)
	for _, cx := range c.Complexes {
		if cx.SourceID == sourceID {
			index[cx.ExternalID] = cx
		}
	}
	return index
}

// SourceStats - счетчики записей одного источника по статусам
type SourceStats struct {
	SourceID  string         `json:"source_id"`
	Listings  map[Status]int `json:"listings"`
	Complexes map[Status]int `json:"complexes"`
}

// Summary считает записи по источникам в порядке их первого появления в каталоге
func (c *Catalog) Summary() []SourceStats {
	order := make([]string, 0)
	stats := make(map[string]*SourceStats)

	get := func(sourceID string) *SourceStats {
		s, ok := stats[sourceID]
		if !ok {
			s = &SourceStats{
				SourceID:  sourceID,
				Listings:  make(map[Status]int),
				Complexes: make(map[Status]int),
			}
			stats[sourceID] = s
			order = append(order, sourceID)
		}
		return s
	}

	for _, l := range c.Listings {
		get(l.SourceID).Listings[l.Status]++
	}
	for _, cx := range c.Complexes {
		get(cx.SourceID).Complexes[cx.Status]++
	}

	result := make([]SourceStats, 0, len(order))
	for _, id := range order {
		result = append(result, *stats[id])
	}
	return result
}
