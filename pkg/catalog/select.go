package catalog

import "github.com/ag-ikigai/Terranova2025/pkg/constants"

// SelectActive filters the catalog down to the rows belonging to the case
// named by the selector table that are flagged active. The selector must
// contain the case key; its absence is a ConfigurationError.
func SelectActive(rows []Instrument, selector map[string]string) ([]Instrument, error) {
	activeCase, ok := selector[constants.CaseSelectorKey]
	if !ok {
		return nil, &ConfigurationError{
			What:   "case selector is missing the active-case key",
			Detail: constants.CaseSelectorKey,
		}
	}

	var selected []Instrument
	for _, row := range rows {
		if row.CaseName == activeCase && row.Active {
			selected = append(selected, row)
		}
	}
	return selected, nil
}
