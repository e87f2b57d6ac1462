package render

import (
	"bytes"
	"fmt"
	"html"
	"html/template"

	"novelhub/pkg/models"
)

// DetailPage is the page the linked list view points at.
const DetailPage = "novel_details.html"

var rowsTmpl = template.Must(template.New("rows").Funcs(template.FuncMap{
	"srcAttr": srcAttr,
}).Parse(`{{range .Novels}}
        <tr>
          <td> <img {{srcAttr .Image}}> </td>
          <td>{{if $.LinkTitles}}<a href='` + DetailPage + `?id={{.ID}}'>{{.Title}}</a>{{else}}{{.Title}}{{end}}</td>
          <td>{{.Status}}</td>
          <td>{{.Genres}}</td>
          <td>{{.NumVolumes}}</td>
        </tr>
{{end}}`))

// srcAttr writes the image path into src verbatim, as the detail view does.
// A URL-context {{.Image}} would be percent-encoded or become #ZgotmplZ.
func srcAttr(image string) template.HTMLAttr {
	return template.HTMLAttr(`src="` + html.EscapeString(image) + `"`)
}

type RowOptions struct {
	// LinkTitles wraps each title in a link to the detail view.
	LinkTitles bool
}

// Rows renders one table row per novel. It has no side effects; the
// result is written into a page with Page.SetInnerHTML.
func Rows(novels []models.Novel, opts RowOptions) (string, error) {
	var buf bytes.Buffer
	err := rowsTmpl.Execute(&buf, struct {
		Novels     []models.Novel
		LinkTitles bool
	}{novels, opts.LinkTitles})
	if err != nil {
		return "", fmt.Errorf("render rows: %w", err)
	}
	return buf.String(), nil
}
