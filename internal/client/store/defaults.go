package store

// DefaultMemberID is the id of the member seeded into an empty account.
const DefaultMemberID = "default"

// DefaultMembers seeds a fresh account with a single "Me" member.
func DefaultMembers() []Member {
	return []Member{{ID: DefaultMemberID, Name: "Me", Relation: "self", Color: "indigo"}}
}

// DefaultDictionary is the built-in lab indicator dictionary loaded when an
// account has no remote state yet.
func DefaultDictionary() []DictionaryEntry {
	return []DictionaryEntry{
		{ID: "1", Name: "WBC", Aliases: []string{"White Blood Cell"}, Description: "immune activity; raised in infection and inflammation", Unit: "10^9/L", NormalRange: "4.0-10.0"},
		{ID: "2", Name: "RBC", Aliases: []string{"Red Blood Cell"}, Description: "oxygen carrying capacity; low in anemia", Unit: "10^12/L", NormalRange: "4.0-5.5"},
		{ID: "3", Name: "HGB", Aliases: []string{"Hemoglobin", "Hb"}, Description: "primary anemia indicator", Unit: "g/L", NormalRange: "120-160"},
		{ID: "4", Name: "PLT", Aliases: []string{"Platelet"}, Description: "clotting function", Unit: "10^9/L", NormalRange: "100-300"},
		{ID: "5", Name: "ALT", Aliases: []string{"GPT", "SGPT"}, Description: "liver function; raised on hepatic injury", Unit: "U/L", NormalRange: "0-40"},
		{ID: "6", Name: "AST", Aliases: []string{"GOT", "SGOT"}, Description: "liver function; also raised on myocardial injury", Unit: "U/L", NormalRange: "0-40"},
		{ID: "7", Name: "BUN", Aliases: []string{"Blood Urea Nitrogen"}, Description: "kidney function", Unit: "mmol/L", NormalRange: "2.9-8.2"},
		{ID: "8", Name: "Cr", Aliases: []string{"Creatinine"}, Description: "key kidney function indicator", Unit: "umol/L", NormalRange: "53-106"},
		{ID: "9", Name: "GLU", Aliases: []string{"Glucose", "FPG"}, Description: "diabetes screening (fasting)", Unit: "mmol/L", NormalRange: "3.9-6.1"},
		{ID: "10", Name: "TC", Aliases: []string{"Total Cholesterol"}, Description: "blood lipid level", Unit: "mmol/L", NormalRange: "<5.2"},
		{ID: "11", Name: "HbA1c", Aliases: []string{"Glycated Hemoglobin", "A1C"}, Description: "three-month glucose control", Unit: "%", NormalRange: "<6.5"},
		{ID: "12", Name: "CRP", Aliases: []string{"C-Reactive Protein"}, Description: "inflammation marker", Unit: "mg/L", NormalRange: "<10"},
	}
}

// DefaultState builds the state a brand-new account starts from.
func DefaultState() *State {
	return &State{
		Members:        DefaultMembers(),
		ActiveMemberID: DefaultMemberID,
		Datasets:       map[string]Dataset{DefaultMemberID: {}},
		Dictionary:     DefaultDictionary(),
	}
}
