package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/progress"

	json2pdf "github.com/Adoubf/json2pdf"
)

// progressBarWidth is the rendered bar width in cells.
const progressBarWidth = 40

// progressBar redraws one status line on a terminal after each batch.
type progressBar struct {
	w   io.Writer
	bar progress.Model
}

func newProgressBar(w io.Writer) *progressBar {
	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = progressBarWidth
	return &progressBar{w: w, bar: bar}
}

// Update redraws the bar for a completed batch and ends the line after the last.
func (p *progressBar) Update(pr json2pdf.Progress) {
	if pr.Total <= 0 {
		return
	}
	percent := float64(pr.Batch) / float64(pr.Total)
	fmt.Fprintf(p.w, "\r%s batch %d/%d", p.bar.ViewAs(percent), pr.Batch, pr.Total)
	if pr.Batch >= pr.Total {
		fmt.Fprintln(p.w)
	}
}
