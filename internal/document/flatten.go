package document

// Flatten splits doc into its ordered column names and bind values. Strings
// bind as strings and nulls as NULL; every other kind binds as its text, so
// a numeric or boolean column stored as text reads back as a string.
func Flatten(doc *Document) ([]string, []any) {
	columns := make([]string, 0, doc.Len())
	values := make([]any, 0, doc.Len())
	doc.Range(func(key string, v Value) bool {
		columns = append(columns, key)
		switch v.Kind() {
		case KindNull:
			values = append(values, nil)
		default:
			values = append(values, v.Text())
		}
		return true
	})
	return columns, values
}
