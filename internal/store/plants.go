package store

// Plants returns the full plant collection.
func (s *Store) Plants() ([]Plant, error) {
	var plants []Plant
	if err := s.readDocument(plantsKey, &plants); err != nil {
		return nil, err
	}
	return plants, nil
}

// SavePlants replaces the full plant collection.
func (s *Store) SavePlants(plants []Plant) error {
	if plants == nil {
		plants = []Plant{}
	}
	return s.writeDocument(plantsKey, plants)
}

// GetPlant returns the plant with the given id, or nil if absent.
func (s *Store) GetPlant(id string) (*Plant, error) {
	plants, err := s.Plants()
	if err != nil {
		return nil, err
	}
	for i := range plants {
		if plants[i].ID == id {
			return &plants[i], nil
		}
	}
	return nil, nil
}

// AddPlant appends p to the collection.
func (s *Store) AddPlant(p Plant) error {
	plants, err := s.Plants()
	if err != nil {
		return err
	}
	plants = append(plants, p)
	return s.SavePlants(plants)
}

// UpdatePlant replaces the record with the same id. A missing id is a
// silent no-op: callers treat "not found" as recoverable, not fatal.
func (s *Store) UpdatePlant(p Plant) error {
	plants, err := s.Plants()
	if err != nil {
		return err
	}
	for i := range plants {
		if plants[i].ID == p.ID {
			plants[i] = p
			return s.SavePlants(plants)
		}
	}
	return nil
}

// DeletePlant removes the record with the given id. Deleting an absent id
// succeeds and changes nothing.
func (s *Store) DeletePlant(id string) error {
	plants, err := s.Plants()
	if err != nil {
		return err
	}
	filtered := plants[:0]
	for _, p := range plants {
		if p.ID != id {
			filtered = append(filtered, p)
		}
	}
	if len(filtered) == len(plants) {
		return nil
	}
	return s.SavePlants(filtered)
}
