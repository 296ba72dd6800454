package store

import "encoding/json"

// Member is one tracked family member. Every member owns exactly one
// Dataset, keyed by Member.ID.
type Member struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Relation string `json:"relation"`
	Color    string `json:"color"`
}

// Item is a single dataset entry. The sync layer only assigns the ID; the
// payload is opaque and travels as-is.
type Item struct {
	ID   string          `json:"id"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Collection names the per-member lists a Dataset holds.
type Collection string

const (
	Medications       Collection = "medications"
	CatalogEntries    Collection = "catalogEntries"
	Checkups          Collection = "checkups"
	LabReports        Collection = "labReports"
	ImagingReports    Collection = "imagingReports"
	ClinicalDocuments Collection = "clinicalDocuments"
	VitalRecords      Collection = "vitalRecords"
)

// Collections lists every Dataset collection in a stable order.
var Collections = []Collection{
	Medications, CatalogEntries, Checkups, LabReports,
	ImagingReports, ClinicalDocuments, VitalRecords,
}

// Dataset holds all health data of one member.
type Dataset struct {
	Medications       []Item `json:"medications"`
	CatalogEntries    []Item `json:"catalogEntries"`
	Checkups          []Item `json:"checkups"`
	LabReports        []Item `json:"labReports"`
	ImagingReports    []Item `json:"imagingReports"`
	ClinicalDocuments []Item `json:"clinicalDocuments"`
	VitalRecords      []Item `json:"vitalRecords"`
}

// list returns a pointer to the named collection, or nil for an unknown name.
func (d *Dataset) list(c Collection) *[]Item {
	switch c {
	case Medications:
		return &d.Medications
	case CatalogEntries:
		return &d.CatalogEntries
	case Checkups:
		return &d.Checkups
	case LabReports:
		return &d.LabReports
	case ImagingReports:
		return &d.ImagingReports
	case ClinicalDocuments:
		return &d.ClinicalDocuments
	case VitalRecords:
		return &d.VitalRecords
	default:
		return nil
	}
}

// DictionaryEntry describes one lab indicator in the shared dictionary.
type DictionaryEntry struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Aliases     []string `json:"aliases,omitempty"`
	Description string   `json:"description,omitempty"`
	Unit        string   `json:"unit,omitempty"`
	NormalRange string   `json:"normalRange,omitempty"`
}

// State is a full snapshot of the local store, the unit the sync engine
// moves between local memory and the remote record.
type State struct {
	Members        []Member           `json:"members"`
	ActiveMemberID string             `json:"activeMemberId"`
	Datasets       map[string]Dataset `json:"memberDatasets"`
	Dictionary     []DictionaryEntry  `json:"sharedDictionaries"`
}
