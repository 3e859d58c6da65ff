package distance

// MockPair is one directed distance entry.
type MockPair struct {
	From, To int
	Distance float64
}

// MockDistanceProvider serves only the pairs it was given, in the given
// direction, so tests exercise the caller's mirror fallback.
type MockDistanceProvider struct {
	m         map[[2]int]float64
	locations int
	addresses map[string]int
}

func NewMockDistanceProvider(pairs []MockPair) *MockDistanceProvider {
	m := make(map[[2]int]float64, len(pairs))
	n := 0
	for _, p := range pairs {
		m[[2]int{p.From, p.To}] = p.Distance
		n = max(n, p.From+1, p.To+1)
	}
	return &MockDistanceProvider{m: m, locations: n, addresses: map[string]int{}}
}

// WithAddresses registers address -> index lookups.
func (p *MockDistanceProvider) WithAddresses(addresses map[string]int) *MockDistanceProvider {
	for a, i := range addresses {
		p.addresses[a] = i
	}
	return p
}

func (p *MockDistanceProvider) Distance(from, to int) (float64, bool) {
	if from == to {
		return 0, true
	}
	d, ok := p.m[[2]int{from, to}]
	return d, ok
}

func (p *MockDistanceProvider) LocationCount() int { return p.locations }

func (p *MockDistanceProvider) LocationIndex(address string) (int, bool) {
	i, ok := p.addresses[address]
	return i, ok
}
