// Package vision finds reference images on captured frames with normalized
// cross-correlation and reads digits through tesseract.
package vision

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

const (
	maxCoarseFactor = 4
	minCoarseSide   = 8
	coarseSlack     = 0.25
	maxCandidates   = 5
)

// toGray returns a copy of img as an 8-bit gray image anchored at the origin.
func toGray(img image.Image) *image.Gray {
	b := img.Bounds()
	g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(g, g.Bounds(), img, b.Min, draw.Src)
	return g
}

func downscale(g *image.Gray, factor int) *image.Gray {
	if factor <= 1 {
		return g
	}
	b := g.Bounds()
	dst := image.NewGray(image.Rect(0, 0, max(b.Dx()/factor, 1), max(b.Dy()/factor, 1)))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), g, b, draw.Src, nil)
	return dst
}

// pattern is a gray image with its zero-mean pixels precomputed.
type pattern struct {
	w, h int
	zero []float64
	norm float64
	mean float64
}

func newPattern(g *image.Gray) *pattern {
	b := g.Bounds()
	p := &pattern{w: b.Dx(), h: b.Dy(), zero: make([]float64, b.Dx()*b.Dy())}

	var sum float64
	for y := 0; y < p.h; y++ {
		for x := 0; x < p.w; x++ {
			sum += float64(g.Pix[y*g.Stride+x])
		}
	}
	p.mean = sum / float64(len(p.zero))

	var sq float64
	for y := 0; y < p.h; y++ {
		for x := 0; x < p.w; x++ {
			v := float64(g.Pix[y*g.Stride+x]) - p.mean
			p.zero[y*p.w+x] = v
			sq += v * v
		}
	}
	p.norm = math.Sqrt(sq)

	return p
}

// plane is a searchable gray image with integral sums for O(1) window stats.
type plane struct {
	img *image.Gray
	sum []float64
	sq  []float64
}

func newPlane(g *image.Gray) *plane {
	w, h := g.Bounds().Dx(), g.Bounds().Dy()
	p := &plane{img: g, sum: make([]float64, (w+1)*(h+1)), sq: make([]float64, (w+1)*(h+1))}

	stride := w + 1
	for y := 0; y < h; y++ {
		var rowSum, rowSq float64
		for x := 0; x < w; x++ {
			v := float64(g.Pix[y*g.Stride+x])
			rowSum += v
			rowSq += v * v
			p.sum[(y+1)*stride+x+1] = p.sum[y*stride+x+1] + rowSum
			p.sq[(y+1)*stride+x+1] = p.sq[y*stride+x+1] + rowSq
		}
	}

	return p
}

func (p *plane) window(x, y, w, h int) (float64, float64) {
	stride := p.img.Bounds().Dx() + 1
	a, b := y*stride+x, y*stride+x+w
	c, d := (y+h)*stride+x, (y+h)*stride+x+w
	return p.sum[d] - p.sum[b] - p.sum[c] + p.sum[a], p.sq[d] - p.sq[b] - p.sq[c] + p.sq[a]
}

// score is the normalized cross-correlation of t placed at (x, y).
func (p *plane) score(t *pattern, x, y int) float64 {
	n := float64(t.w * t.h)
	sum, sq := p.window(x, y, t.w, t.h)

	if t.norm == 0 {
		return 1 - math.Abs(sum/n-t.mean)/255
	}

	variance := sq - sum*sum/n
	if variance <= 1e-9 {
		return 0
	}

	var cross float64
	for j := 0; j < t.h; j++ {
		row := p.img.Pix[(y+j)*p.img.Stride+x:]
		zrow := t.zero[j*t.w : (j+1)*t.w]
		for i, z := range zrow {
			cross += float64(row[i]) * z
		}
	}

	return cross / (math.Sqrt(variance) * t.norm)
}

type candidate struct {
	pt    image.Point
	score float64
}

// best scans every placement of t inside area and keeps the top candidates
// scoring at least floor, one per neighbourhood.
func (p *plane) best(t *pattern, area image.Rectangle, floor float64, keep int) []candidate {
	area = area.Intersect(p.img.Bounds())
	var out []candidate

	for y := area.Min.Y; y+t.h <= area.Max.Y; y++ {
		for x := area.Min.X; x+t.w <= area.Max.X; x++ {
			s := p.score(t, x, y)
			if s < floor {
				continue
			}
			out = insertCandidate(out, candidate{pt: image.Pt(x, y), score: s}, keep)
		}
	}

	return out
}

func insertCandidate(list []candidate, c candidate, keep int) []candidate {
	for i, existing := range list {
		if abs(existing.pt.X-c.pt.X) <= 2 && abs(existing.pt.Y-c.pt.Y) <= 2 {
			if c.score > existing.score {
				list[i] = c
				sortCandidates(list)
			}
			return list
		}
	}

	list = append(list, c)
	sortCandidates(list)
	if len(list) > keep {
		list = list[:keep]
	}
	return list
}

func sortCandidates(list []candidate) {
	for i := 1; i < len(list); i++ {
		for j := i; j > 0 && list[j].score > list[j-1].score; j-- {
			list[j], list[j-1] = list[j-1], list[j]
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Template is a reference image prepared for full and coarse resolution search.
type Template struct {
	full   *pattern
	coarse *pattern
	factor int
}

func NewTemplate(img image.Image) *Template {
	g := toGray(img)
	w, h := g.Bounds().Dx(), g.Bounds().Dy()

	factor := 1
	for factor < maxCoarseFactor && w/(factor*2) >= minCoarseSide && h/(factor*2) >= minCoarseSide {
		factor *= 2
	}

	t := &Template{full: newPattern(g), factor: factor}
	if factor > 1 {
		t.coarse = newPattern(downscale(g, factor))
	}

	return t
}

func (t *Template) Size() (int, int) {
	return t.full.w, t.full.h
}

// Frame is one captured surface, with downscaled copies built on demand.
type Frame struct {
	full   *plane
	scaled map[int]*plane
}

func NewFrame(img image.Image) *Frame {
	return &Frame{full: newPlane(toGray(img)), scaled: make(map[int]*plane)}
}

func (f *Frame) Bounds() image.Rectangle {
	return f.full.img.Bounds()
}

func (f *Frame) at(factor int) *plane {
	if factor <= 1 {
		return f.full
	}
	if p, found := f.scaled[factor]; found {
		return p
	}
	p := newPlane(downscale(f.full.img, factor))
	f.scaled[factor] = p
	return p
}

// Find returns the best placement of t inside area scoring at least threshold.
// Large templates are first searched on a downscaled frame and refined around
// the coarse peaks.
func (f *Frame) Find(t *Template, area image.Rectangle, threshold float64) (image.Point, float64, bool) {
	area = area.Intersect(f.Bounds())
	if area.Dx() < t.full.w || area.Dy() < t.full.h {
		return image.Point{}, 0, false
	}

	if t.factor == 1 {
		found := f.full.best(t.full, area, threshold, 1)
		if len(found) == 0 {
			return image.Point{}, 0, false
		}
		return found[0].pt, found[0].score, true
	}

	k := t.factor
	coarseArea := image.Rect(area.Min.X/k, area.Min.Y/k, area.Max.X/k, area.Max.Y/k)
	peaks := f.at(k).best(t.coarse, coarseArea, threshold-coarseSlack, maxCandidates)

	var result candidate
	for _, peak := range peaks {
		around := image.Rect(peak.pt.X*k-k, peak.pt.Y*k-k, peak.pt.X*k+2*k+t.full.w, peak.pt.Y*k+2*k+t.full.h).Intersect(area)
		refined := f.full.best(t.full, around, threshold, 1)
		if len(refined) > 0 && refined[0].score > result.score {
			result = refined[0]
		}
	}

	if result.score < threshold || result.score == 0 {
		return image.Point{}, 0, false
	}

	return result.pt, result.score, true
}
