package domain

// Merge functions are total: malformed records are dropped, never returned as
// errors. Use Sanitize to see what was dropped.

// Sanitize splits list into well-formed records and rejections.
func Sanitize(list []Equipment) ([]Equipment, []*MalformedError) {
	out := make([]Equipment, 0, len(list))
	var rejected []*MalformedError
	for i, e := range list {
		if err := e.validateAt(i); err != nil {
			rejected = append(rejected, err.(*MalformedError))
			continue
		}
		out = append(out, e)
	}
	return out, rejected
}

// Dedupe collapses records sharing a Key. Room equipment duplicates sum their
// quantities. For option duplicates the record carrying an ID wins; when
// neither or both carry one, the larger quantity wins. Order of first
// occurrence is kept.
func Dedupe(list []Equipment) []Equipment {
	out, _ := DedupeWithStats(list)
	return out
}

// DedupeWithStats is Dedupe that also reports how many duplicates were folded.
func DedupeWithStats(list []Equipment) ([]Equipment, int) {
	valid, _ := Sanitize(list)

	out := make([]Equipment, 0, len(valid))
	index := make(map[string]int, len(valid))
	duplicates := 0

	for _, e := range valid {
		k := e.Key()
		pos, seen := index[k]
		if !seen {
			index[k] = len(out)
			out = append(out, e)
			continue
		}
		duplicates++
		existing := &out[pos]
		if e.Category == CategoryEquipment {
			existing.Quantity += e.Quantity
			continue
		}
		if preferOption(e, *existing) {
			*existing = e
		}
	}
	return out, duplicates
}

func preferOption(candidate, existing Equipment) bool {
	candHasID, existHasID := candidate.ID != "", existing.ID != ""
	if candHasID != existHasID {
		return candHasID
	}
	return candidate.Quantity > existing.Quantity
}

// Partition returns the records of one category.
func Partition(list []Equipment, c Category) []Equipment {
	out := make([]Equipment, 0, len(list))
	for _, e := range list {
		if e.Category == c {
			out = append(out, e)
		}
	}
	return out
}

// MergeRoomEquipments replaces the room equipment partition of existingAll
// with newRoomEquipments and keeps every option record of existingAll.
func MergeRoomEquipments(newRoomEquipments, existingAll []Equipment) []Equipment {
	all := make([]Equipment, 0, len(newRoomEquipments)+len(existingAll))
	for _, e := range newRoomEquipments {
		e.Category = CategoryEquipment
		all = append(all, e)
	}
	all = append(all, Partition(existingAll, CategoryOption)...)
	return Dedupe(all)
}

// MergeOptionEquipments derives the option partition from opts and keeps
// every room equipment record of existingAll.
func MergeOptionEquipments(opts ProjectOptions, existingAll []Equipment) []Equipment {
	all := Partition(existingAll, CategoryEquipment)
	all = append(all, OptionsToEquipments(opts)...)
	return Dedupe(all)
}

// AdjustQuantity adds delta to the record with the given ID. A record that
// reaches zero is removed.
func AdjustQuantity(list []Equipment, id string, delta int) ([]Equipment, error) {
	out := make([]Equipment, 0, len(list))
	found := false
	for _, e := range list {
		if e.ID != id || found {
			out = append(out, e)
			continue
		}
		found = true
		e.Quantity += delta
		if e.Quantity > 0 {
			out = append(out, e)
		}
	}
	if !found {
		return nil, ErrEquipmentNotFound
	}
	return out, nil
}

// RemoveByID drops the record with the given ID.
func RemoveByID(list []Equipment, id string) ([]Equipment, error) {
	out := make([]Equipment, 0, len(list))
	found := false
	for _, e := range list {
		if e.ID == id && !found {
			found = true
			continue
		}
		out = append(out, e)
	}
	if !found {
		return nil, ErrEquipmentNotFound
	}
	return out, nil
}

// RemoveRoom drops every record placed in roomID.
func RemoveRoom(list []Equipment, roomID string) []Equipment {
	out := make([]Equipment, 0, len(list))
	for _, e := range list {
		if e.RoomID != roomID {
			out = append(out, e)
		}
	}
	return out
}

// ApplyColor sets one finish on every colour-bearing record: catalogue types
// offered in colours, and any record that already carries a color.
func ApplyColor(list []Equipment, color string) []Equipment {
	out := make([]Equipment, len(list))
	for i, e := range list {
		if hasColor(e) {
			e.Metadata = e.Metadata.With("color", color)
		}
		out[i] = e
	}
	return out
}

func hasColor(e Equipment) bool {
	if _, ok := e.Metadata["color"]; ok {
		return true
	}
	t, ok := LookupType(e.Type)
	return ok && t.Colored
}
