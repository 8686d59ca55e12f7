// Package convert maps catalog entries to and from their gorm records.
package convert

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/skybreak/forcepool/internal/catalog"
	"github.com/skybreak/forcepool/internal/model"
	"github.com/skybreak/forcepool/pkg/core"
)

// tasksToJSON converts capabilities to datatypes.JSON for DB storage.
func tasksToJSON(tasks []core.Task) datatypes.JSON {
	if len(tasks) == 0 {
		return datatypes.JSON("[]")
	}
	data, _ := json.Marshal(tasks)
	return datatypes.JSON(data)
}

// EntryToRecord converts a catalog entry to its gorm record.
func EntryToRecord(e catalog.Entry) model.UnitTypeRecord {
	return model.UnitTypeRecord{
		Type:         string(e.Type),
		Price:        e.Price,
		Task:         string(e.Task),
		Capabilities: tasksToJSON(e.Capabilities),
	}
}

// RecordToEntry converts a stored record back to a catalog entry. Task names
// are validated when the entries are passed to catalog.New.
func RecordToEntry(r model.UnitTypeRecord) (catalog.Entry, error) {
	var caps []core.Task
	if len(r.Capabilities) > 0 {
		if err := json.Unmarshal(r.Capabilities, &caps); err != nil {
			return catalog.Entry{}, fmt.Errorf("unit type %q: bad capabilities: %w", r.Type, err)
		}
	}
	return catalog.Entry{
		Type:         core.UnitType(r.Type),
		Price:        r.Price,
		Task:         core.Task(r.Task),
		Capabilities: caps,
	}, nil
}

// RecordsToCatalog builds a catalog from stored records.
func RecordsToCatalog(records []model.UnitTypeRecord) (*catalog.Catalog, error) {
	entries := make([]catalog.Entry, 0, len(records))
	for _, r := range records {
		e, err := RecordToEntry(r)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return catalog.New(entries...)
}
