package domain

// Validate checks the fields required to create a place.
func (n NewPlace) Validate() error {
	return ValidateName(n.Name)
}

// Validate checks the fields required to create a zone.
func (n NewZone) Validate() error {
	if n.PlaceID == "" {
		return invalidf("place id is required")
	}
	return ValidateName(n.Name)
}

// Validate checks the fields required to create a container. An empty Type
// is accepted and means DefaultContainerType.
func (n NewContainer) Validate() error {
	if n.ZoneID == "" {
		return invalidf("zone id is required")
	}
	if err := ValidateName(n.Name); err != nil {
		return err
	}
	if n.Type != "" && !n.Type.Valid() {
		return invalidf("unknown container type %q", n.Type)
	}
	if n.ParentID != nil && *n.ParentID == "" {
		return invalidf("parent container id must not be empty")
	}
	return nil
}

// Validate checks the fields required to create an item.
func (n NewItem) Validate() error {
	if n.ContainerID == "" {
		return invalidf("container id is required")
	}
	if err := ValidateName(n.Name); err != nil {
		return err
	}
	if !n.Category.Valid() {
		return invalidf("unknown category %q", n.Category)
	}
	return nil
}
