package models

// SectionError marks a bundle section that could not be computed.
// It is serialized in place of the section so readers see why data is missing.
type SectionError struct {
	Message string `json:"error"`
	// Unresolved lists canonical fields (account, cost, revenue) that no
	// column matched.
	Unresolved []string `json:"unresolved,omitempty"`
}

// Section is one named entry of a Bundle. Exactly one of Table, Summary and
// Error is set.
type Section struct {
	Alias   string        `json:"alias"`
	Table   *Table        `json:"table,omitempty"`
	Summary *SummaryTable `json:"summary,omitempty"`
	Error   *SectionError `json:"error,omitempty"`
}

// Bundle is the ordered alias -> section mapping handed to the analyst.
type Bundle struct {
	// BookName is the workbook file name (no path). It is not serialized.
	BookName string    `json:"-"`
	Sections []Section `json:"sections"`
}

// Set stores sec under its alias. An existing alias keeps its position and
// has its content replaced.
func (b *Bundle) Set(sec Section) {
	for i := range b.Sections {
		if b.Sections[i].Alias == sec.Alias {
			b.Sections[i] = sec
			return
		}
	}
	b.Sections = append(b.Sections, sec)
}

// Section returns the section stored under alias.
func (b *Bundle) Section(alias string) (*Section, bool) {
	for i := range b.Sections {
		if b.Sections[i].Alias == alias {
			return &b.Sections[i], true
		}
	}
	return nil, false
}

// Aliases returns the section aliases in bundle order.
func (b *Bundle) Aliases() []string {
	aliases := make([]string, 0, len(b.Sections))
	for _, s := range b.Sections {
		aliases = append(aliases, s.Alias)
	}
	return aliases
}
