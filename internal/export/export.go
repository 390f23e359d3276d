// Package export serializes student sets to CSV for the download
// endpoint.
//
// The format is fixed by the export contract, not by encoding/csv's
// rules: a 7-column French header, text fields ALWAYS double-quoted
// (encoding/csv quotes only when a field needs it), numeric fields
// bare. Embedded double quotes are doubled, as in RFC 4180.
package export

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/aanand-mishra/student-records-api/internal/types"
)

// Filename is the attachment name offered to the browser.
const Filename = "etudiants.csv"

// ContentType is the MIME type of the generated document.
const ContentType = "text/csv"

// header matches the column order of the rows below.
const header = `ID,Nom,Prénom,Âge,Email,Filière,Date d'ajout`

// StudentsCSV renders the given records as a CSV document, one row per
// record in the order provided (callers pass them creation-time
// descending). The whole document is materialized in memory.
func StudentsCSV(students []types.Student) []byte {
	var buf bytes.Buffer
	buf.WriteString(header)

	for _, s := range students {
		buf.WriteByte('\n')
		buf.WriteString(strconv.FormatInt(s.ID, 10))
		buf.WriteByte(',')
		buf.WriteString(quote(s.Name))
		buf.WriteByte(',')
		buf.WriteString(quote(s.Firstname))
		buf.WriteByte(',')
		buf.WriteString(strconv.Itoa(s.Age))
		buf.WriteByte(',')
		buf.WriteString(quote(s.Email))
		buf.WriteByte(',')
		buf.WriteString(quote(s.Filiere))
		buf.WriteByte(',')
		buf.WriteString(quote(s.CreatedAt))
	}

	return buf.Bytes()
}

// quote wraps a text field in double quotes, doubling any embedded
// quote characters.
func quote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
