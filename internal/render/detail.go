package render

import (
	"strconv"

	"novelhub/pkg/models"
)

// Element selectors of the page shells.
const (
	ListContainer   = "#data-output"
	DetailContainer = ".novel-detail-container"
	ImageField      = "#novel-image"
	TitleField      = "#novel-title"
	SynopsisField   = "#novel-synopsis"
	StatusField     = "#novel-status"
	GenresField     = "#novel-genres"
	VolumesField    = "#novel-volumes"
)

// NotFoundMessage replaces the detail container when no record matches.
const NotFoundMessage = "<p>Novel not found.</p>"

// DetailFields is the one-to-one projection of a novel onto the detail
// view's named elements.
type DetailFields struct {
	ImageSrc string
	Title    string
	Synopsis string
	Status   string
	Genres   string
	Volumes  string
}

func Detail(n models.Novel) DetailFields {
	return DetailFields{
		ImageSrc: n.Image,
		Title:    n.Title,
		Synopsis: n.Synopsis,
		Status:   n.Status,
		Genres:   string(n.Genres),
		Volumes:  strconv.Itoa(n.NumVolumes),
	}
}

// Apply writes the fields into p.
func (f DetailFields) Apply(p *Page) error {
	if err := p.SetAttr(ImageField, "src", f.ImageSrc); err != nil {
		return err
	}
	for _, kv := range [...]struct{ sel, text string }{
		{TitleField, f.Title},
		{SynopsisField, f.Synopsis},
		{StatusField, f.Status},
		{GenresField, f.Genres},
		{VolumesField, f.Volumes},
	} {
		if err := p.SetText(kv.sel, kv.text); err != nil {
			return err
		}
	}
	return nil
}

// ApplyNotFound replaces the detail container's contents with NotFoundMessage.
func ApplyNotFound(p *Page) error {
	return p.SetInnerHTML(DetailContainer, NotFoundMessage)
}
