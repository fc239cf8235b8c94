package compare

// Formatter renders a comparison set in one output format.
type Formatter interface {
	Name() string
	Format(set *ComparisonSet) (string, error)
}

// GetFormatterByName resolves an output format flag; nil for unknown names.
func GetFormatterByName(name string) Formatter {
	switch name {
	case "table", "":
		return &TableFormatter{}
	case "table-verbose":
		return &TableFormatter{Verbose: true}
	case "csv":
		return &CSVFormatter{}
	case "json":
		return &JSONFormatter{Pretty: true}
	default:
		return nil
	}
}
