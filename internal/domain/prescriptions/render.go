package prescriptions

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

const (
	pageWidth   = 800
	pageMargin  = 40.0
	lineHeight  = 18.0
	sectionGap  = 14.0
	headerBoxH  = 70.0
	minPageSize = 400
)

var (
	pageBg      = color.RGBA{255, 255, 255, 255}
	headerBg    = color.RGBA{32, 94, 120, 255}
	headerText  = color.RGBA{255, 255, 255, 255}
	bodyText    = color.RGBA{30, 34, 38, 255}
	mutedText   = color.RGBA{110, 115, 120, 255}
	dividerLine = color.RGBA{200, 204, 208, 255}
)

// block es una caja de texto: título + líneas, dibujadas de arriba hacia abajo.
type block struct {
	title string
	lines []string
}

func pageBlocks(p Prescription) []block {
	meds := make([]string, 0, len(p.Medicines))
	for i, m := range p.Medicines {
		meds = append(meds, fmt.Sprintf("%d. %s - %s, %s, %s", i+1, m.Name, m.Dosage, m.Frequency, m.Duration))
	}
	out := []block{
		{title: "Paciente", lines: []string{
			"Mascota: " + p.PetName,
			"Tutor: " + p.OwnerName,
		}},
		{title: "Diagnostico", lines: []string{p.Diagnosis}},
		{title: "Medicamentos", lines: meds},
	}
	if p.Advice != "" {
		out = append(out, block{title: "Indicaciones", lines: []string{p.Advice}})
	}
	return out
}

// Render dibuja la receta como PNG. basicfont solo cubre ASCII; otros caracteres salen como glifo vacío.
func Render(p Prescription) ([]byte, error) {
	// primera pasada para medir el alto con el word wrap real
	measure := gg.NewContext(pageWidth, minPageSize)
	measure.SetFontFace(basicfont.Face7x13)
	blocks := pageBlocks(p)
	textWidth := pageWidth - 2*pageMargin

	height := pageMargin + headerBoxH + sectionGap
	wrapped := make([][]string, len(blocks))
	for i, b := range blocks {
		for _, l := range b.lines {
			wrapped[i] = append(wrapped[i], measure.WordWrap(l, textWidth)...)
		}
		height += lineHeight*float64(len(wrapped[i])+1) + sectionGap
	}
	height += pageMargin + lineHeight
	if height < minPageSize {
		height = minPageSize
	}

	dc := gg.NewContext(pageWidth, int(height))
	dc.SetColor(pageBg)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetColor(headerBg)
	dc.DrawRectangle(0, 0, pageWidth, pageMargin+headerBoxH/2)
	dc.Fill()
	dc.SetColor(headerText)
	dc.DrawStringAnchored("RECETA MEDICA VETERINARIA", pageMargin, pageMargin/2+6, 0, 0.5)
	dc.DrawStringAnchored("Dr(a). "+p.DoctorName, pageMargin, pageMargin/2+26, 0, 0.5)
	dc.DrawStringAnchored(p.CreatedAt.Format("2006-01-02"), pageWidth-pageMargin, pageMargin/2+6, 1, 0.5)

	y := pageMargin + headerBoxH
	for i, b := range blocks {
		dc.SetColor(mutedText)
		dc.DrawString(b.title, pageMargin, y)
		y += 4
		dc.SetColor(dividerLine)
		dc.SetLineWidth(1)
		dc.DrawLine(pageMargin, y, pageWidth-pageMargin, y)
		dc.Stroke()
		y += lineHeight

		dc.SetColor(bodyText)
		for _, l := range wrapped[i] {
			dc.DrawString(l, pageMargin, y)
			y += lineHeight
		}
		y += sectionGap
	}

	dc.SetColor(mutedText)
	dc.DrawStringAnchored("ID "+p.ID, pageMargin, height-pageMargin/2, 0, 0.5)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
