package ports

// Contract for retrieving distances between location indices.
// Entries may be present in only one direction; callers handle the mirror lookup.
type DistanceProvider interface {
	// Return the stored distance from one location to another, if any.
	Distance(from, to int) (float64, bool)
	// Return the number of locations the matrix covers.
	LocationCount() int
}

// Contract for resolving a street address to its location index.
type AddressBook interface {
	LocationIndex(address string) (int, bool)
}
