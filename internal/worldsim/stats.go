package worldsim

// ResourceTally holds resource totals broken down by the seven sources
// §4.8 names, each keyed by resource name. "all" is the grand total over
// every other category; values added to markets also land in services.
type ResourceTally struct {
	All          map[string]int
	Units        map[string]int
	Houses       map[string]int
	Markets      map[string]int
	Producers    map[string]int
	Services     map[string]int
	StorageYards map[string]int
	Granaries    map[string]int
}

func newResourceTally() ResourceTally {
	return ResourceTally{
		All:          make(map[string]int),
		Units:        make(map[string]int),
		Houses:       make(map[string]int),
		Markets:      make(map[string]int),
		Producers:    make(map[string]int),
		Services:     make(map[string]int),
		StorageYards: make(map[string]int),
		Granaries:    make(map[string]int),
	}
}

// WorldStats is the per-tick accumulator rebuilt from scratch every tick
// (§4.3 "A WorldStats accumulator rebuilt every tick", §4.8).
type WorldStats struct {
	Population int
	Workers    int

	LowestHouseLevel  int
	HighestHouseLevel int
	HouseLevelCounts  map[int]int

	Resources ResourceTally
}

func newWorldStats() *WorldStats {
	return &WorldStats{Resources: newResourceTally(), HouseLevelCounts: make(map[int]int)}
}

func (s *WorldStats) reset() {
	s.Population = 0
	s.Workers = 0
	s.LowestHouseLevel = 0
	s.HighestHouseLevel = 0
	s.HouseLevelCounts = make(map[int]int)
	s.Resources = newResourceTally()
}

func (s *WorldStats) addAll(kind string, count int) {
	if count == 0 {
		return
	}
	s.Resources.All[kind] += count
}

// AddUnitResources tallies goods carried by units.
func (s *WorldStats) AddUnitResources(kind string, count int) {
	s.Resources.Units[kind] += count
	s.addAll(kind, count)
}

// AddHouseResources tallies goods stocked in houses.
func (s *WorldStats) AddHouseResources(kind string, count int) {
	s.Resources.Houses[kind] += count
	s.addAll(kind, count)
}

// AddMarketResources tallies goods stocked in markets. Markets also count
// as services (§4.8: "Values added to markets also add to services").
func (s *WorldStats) AddMarketResources(kind string, count int) {
	s.Resources.Markets[kind] += count
	s.Resources.Services[kind] += count
	s.addAll(kind, count)
}

// AddProducerResources tallies goods stocked in producers.
func (s *WorldStats) AddProducerResources(kind string, count int) {
	s.Resources.Producers[kind] += count
	s.addAll(kind, count)
}

// AddServiceResources tallies goods stocked in non-market services.
func (s *WorldStats) AddServiceResources(kind string, count int) {
	s.Resources.Services[kind] += count
	s.addAll(kind, count)
}

// AddStorageYardResources tallies goods stocked in storage yards.
func (s *WorldStats) AddStorageYardResources(kind string, count int) {
	s.Resources.StorageYards[kind] += count
	s.addAll(kind, count)
}

// AddGranaryResources tallies goods stocked in granaries.
func (s *WorldStats) AddGranaryResources(kind string, count int) {
	s.Resources.Granaries[kind] += count
	s.addAll(kind, count)
}

func (s *WorldStats) observeHouseLevel(level int, first bool) {
	if first {
		s.LowestHouseLevel = level
		s.HighestHouseLevel = level
	} else {
		if level < s.LowestHouseLevel {
			s.LowestHouseLevel = level
		}
		if level > s.HighestHouseLevel {
			s.HighestHouseLevel = level
		}
	}
	s.HouseLevelCounts[level]++
}
