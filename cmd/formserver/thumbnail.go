package main

import (
	"image"
	"image/color"
	"image/png"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"golang.org/x/image/draw"

	"github.com/kilroy-fr/pdfforms/pdfstruct"
)

const thumbnailWidth = 200

// handleThumbnail renders a placeholder PNG with the aspect ratio of a form's
// first page, thumbnailWidth pixels wide. It does not rasterize the page's actual content --
// nothing in this module's dependency stack does PDF-to-raster rendering --
// it exists so a caller can preview page geometry (portrait vs landscape,
// aspect ratio) before a fill, and to exercise the thumbnail resize path a
// real renderer would eventually plug into.
func (s *server) handleThumbnail(c *gin.Context) {
	formID := c.Param("formID")
	def, ok := s.registry.Get(formID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown form ID: " + formID})
		return
	}

	mediaBox, err := firstPageMediaBox(filepath.Join(s.templateDir, def.TemplateFilename))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	pageW := mediaBox[2] - mediaBox[0]
	pageH := mediaBox[3] - mediaBox[1]
	if pageW <= 0 || pageH <= 0 {
		pageW, pageH = 612, 792
	}
	thumbH := int(float64(thumbnailWidth) * pageH / pageW)
	if thumbH < 1 {
		thumbH = 1
	}

	full := image.NewGray(image.Rect(0, 0, int(pageW), int(pageH)))
	draw.Draw(full, full.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	borderGray(full)

	thumb := image.NewGray(image.Rect(0, 0, thumbnailWidth, thumbH))
	draw.NearestNeighbor.Scale(thumb, thumb.Bounds(), full, full.Bounds(), draw.Over, nil)

	c.Header("Content-Type", "image/png")
	png.Encode(c.Writer, thumb)
}

// borderGray draws a 1px gray border around img's edge so the placeholder
// is visually distinguishable from a blank image.
func borderGray(img *image.Gray) {
	b := img.Bounds()
	gray := color.Gray{Y: 160}
	for x := b.Min.X; x < b.Max.X; x++ {
		img.SetGray(x, b.Min.Y, gray)
		img.SetGray(x, b.Max.Y-1, gray)
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		img.SetGray(b.Min.X, y, gray)
		img.SetGray(b.Max.X-1, y, gray)
	}
}

// firstPageMediaBox opens a template and returns its first page's /MediaBox.
func firstPageMediaBox(path string) (rect [4]float64, err error) {
	fh, err := os.Open(path)
	if err != nil {
		return rect, err
	}
	defer fh.Close()
	pdf, err := pdfstruct.Open(fh)
	if err != nil {
		return rect, err
	}

	pagesRef, ok := pdf.Catalog["Pages"].(pdfstruct.Reference)
	if !ok {
		return [4]float64{0, 0, 612, 792}, nil
	}
	pages, err := pdf.GetDict(pagesRef)
	if err != nil {
		return rect, err
	}
	kidsArr, _ := pages["Kids"].(pdfstruct.Array)
	if len(kidsArr) == 0 {
		return [4]float64{0, 0, 612, 792}, nil
	}
	pageRef, ok := kidsArr[0].(pdfstruct.Reference)
	if !ok {
		return [4]float64{0, 0, 612, 792}, nil
	}
	page, err := pdf.GetDict(pageRef)
	if err != nil {
		return rect, err
	}
	boxArr, ok := page["MediaBox"].(pdfstruct.Array)
	if !ok || len(boxArr) != 4 {
		return [4]float64{0, 0, 612, 792}, nil
	}
	for i, v := range boxArr {
		switch v := v.(type) {
		case int:
			rect[i] = float64(v)
		case float64:
			rect[i] = v
		}
	}
	return rect, nil
}
