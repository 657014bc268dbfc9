package scraper

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"galeri/internal/models"

	"github.com/PuerkitoBio/goquery"
)

// maxDescription and maxImages bound what a detail page contributes.
const (
	maxDescription = 500
	maxImages      = 10
)

// UnknownBrand fills brand and model when a listing carries no title.
const UnknownBrand = "Bilinmeyen"

var knownBrands = []string{"Opel", "Renault", "BMW", "Toyota", "Volkswagen", "Ford", "Fiat", "Peugeot", "Citroen", "Arora"}

var (
	nonDigits = regexp.MustCompile(`[^\d]`)
	leadDigit = regexp.MustCompile(`^\s*(\d+)`)
	yearRe    = regexp.MustCompile(`(?i)(\d{4})\s*(model|yıl|year)`)
	kmRe      = regexp.MustCompile(`(?i)(\d+\.?\d*)\s*(km|kilometre)`)
	colorRe   = regexp.MustCompile(`(?i)(beyaz|siyah|gri|mavi|kırmızı|yeşil|sarı|turuncu|pembe|mor|kahverengi|bej)`)
)

// ParseBrandModel splits a listing title such as "Opel Corsa 1.4 Enjoy"
// into brand and model.
func ParseBrandModel(title string) (brand, model string) {
	parts := strings.Fields(title)
	if len(parts) == 0 {
		return UnknownBrand, UnknownBrand
	}
	if len(parts) == 1 {
		return parts[0], parts[0]
	}

	brand = parts[0]
	if !contains(knownBrands, brand) {
		twoWord := parts[0] + " " + parts[1]
		for _, b := range knownBrands {
			if strings.Contains(twoWord, b) {
				brand = twoWord
				break
			}
		}
	}

	model = strings.TrimSpace(strings.Replace(strings.Join(parts, " "), brand, "", 1))
	if model == "" {
		model = brand
	}
	return brand, model
}

// MapFuelType guesses the fuel type from free text.
func MapFuelType(s string) models.FuelType {
	lower := strings.ToLower(s)
	switch {
	case strings.Contains(lower, "dizel"), strings.Contains(lower, "dci"), strings.Contains(lower, "tdi"):
		return models.FuelDiesel
	case strings.Contains(lower, "hibrit"):
		return models.FuelHybrid
	case strings.Contains(lower, "elektrik"):
		return models.FuelElectric
	case strings.Contains(lower, "lpg"):
		return models.FuelLPG
	}
	return models.FuelPetrol
}

// MapTransmission guesses the gearbox from free text.
func MapTransmission(s string) models.TransmissionType {
	lower := strings.ToLower(s)
	if strings.Contains(lower, "otomatik") || strings.Contains(lower, "automatic") {
		return models.TransmissionAutomatic
	}
	return models.TransmissionManual
}

// ParseNumber keeps only the digits, so "960.000 TL" becomes 960000.
func ParseNumber(s string) int {
	n, err := strconv.Atoi(nonDigits.ReplaceAllString(s, ""))
	if err != nil {
		return 0
	}
	return n
}

func leadingInt(s string) int {
	m := leadDigit.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

// parseTable reads the gallery table. Rows without a usable brand, model
// and price are reported in skipped.
func parseTable(doc *goquery.Document, base *url.URL, now time.Time) (cars []models.BulkCarInput, skipped []string) {
	doc.Find("table tbody tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() == 0 {
			return
		}

		modelText := cellText(cells, 1)
		if modelText == "" {
			modelText = strings.TrimSpace(row.Find(`[class*="model"]`).First().Text())
		}
		brand, model := ParseBrandModel(modelText)

		title := cellText(cells, 2)
		if title == "" {
			title = strings.TrimSpace(row.Find(`h4, h3, [class*="title"]`).First().Text())
		}

		year := leadingInt(cellText(cells, 3))
		if year == 0 {
			year = now.Year()
		}

		color := cellText(cells, 5)
		if color == "" || color == "-" {
			color = models.DefaultColor
		}

		price := ParseNumber(cellText(cells, 6))
		if price <= 0 {
			skipped = append(skipped, "table row "+strconv.Itoa(i+1)+": missing price")
			return
		}

		images := []string{}
		img := row.Find("img").First()
		src, _ := img.Attr("src")
		if src == "" {
			src, _ = img.Attr("data-src")
		}
		if abs := absolute(base, src); abs != "" {
			images = append(images, abs)
		}

		cars = append(cars, models.BulkCarInput{
			Brand:            brand,
			Model:            model,
			Year:             year,
			Price:            float64(price),
			Km:               ParseNumber(cellText(cells, 4)),
			FuelType:         MapFuelType(title),
			TransmissionType: MapTransmission(title),
			Color:            color,
			Description:      title,
			Images:           images,
			Status:           models.StatusAvailable,
		})
	})
	return cars, skipped
}

// collectDetailLinks returns unique /ilan/ links, table rows first.
func collectDetailLinks(doc *goquery.Document, base *url.URL, limit int) []string {
	var links []string
	seen := make(map[string]bool)
	add := func(_ int, a *goquery.Selection) {
		if limit > 0 && len(links) >= limit {
			return
		}
		href, _ := a.Attr("href")
		if !strings.Contains(href, "/ilan/") {
			return
		}
		abs := absolute(base, href)
		if abs == "" || seen[abs] {
			return
		}
		seen[abs] = true
		links = append(links, abs)
	}

	doc.Find("table tbody tr").Each(func(_ int, row *goquery.Selection) {
		add(0, row.Find(`a[href*="/ilan/"]`).First())
	})
	if len(links) == 0 {
		doc.Find(`a[href*="/ilan/"]`).Each(add)
	}
	return links
}

// parseDetail reads a single listing page.
func parseDetail(doc *goquery.Document, pageURL *url.URL, now time.Time) (models.BulkCarInput, bool) {
	title := firstText(doc, "h1", `[class*="title"]`, "title")
	brand, model := ParseBrandModel(title)

	priceText := firstText(doc, `[class*="price"]`)
	if priceText == "" {
		doc.Find("span").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if t := strings.TrimSpace(s.Text()); strings.Contains(t, "TL") {
				priceText = t
				return false
			}
			return true
		})
	}
	price := ParseNumber(priceText)

	car := models.BulkCarInput{
		Brand:            brand,
		Model:            model,
		Year:             now.Year(),
		Price:            float64(price),
		FuelType:         models.FuelPetrol,
		TransmissionType: models.TransmissionManual,
		Color:            models.DefaultColor,
		Status:           models.StatusAvailable,
	}

	doc.Find(`[class*="detail"], [class*="spec"], table`).Each(func(_ int, s *goquery.Selection) {
		text := strings.ToLower(s.Text())

		if m := yearRe.FindStringSubmatch(text); m != nil {
			if y, err := strconv.Atoi(m[1]); err == nil && y > 0 {
				car.Year = y
			}
		}
		if m := kmRe.FindString(text); m != "" {
			car.Km = ParseNumber(m)
		}
		if fuel := MapFuelType(text); fuel != models.FuelPetrol {
			car.FuelType = fuel
		}
		if MapTransmission(text) == models.TransmissionAutomatic {
			car.TransmissionType = models.TransmissionAutomatic
		}
		if m := colorRe.FindStringSubmatch(text); m != nil {
			car.Color = capitalize(m[1])
		}
	})

	images := []string{}
	seen := make(map[string]bool)
	doc.Find(`img[src*="arabam"], img[data-src*="arabam"]`).Each(func(_ int, img *goquery.Selection) {
		src, _ := img.Attr("src")
		if src == "" {
			src, _ = img.Attr("data-src")
		}
		if src == "" || strings.Contains(src, "logo") || strings.Contains(src, "icon") {
			return
		}
		abs := absolute(pageURL, src)
		if abs == "" || seen[abs] {
			return
		}
		seen[abs] = true
		images = append(images, abs)
	})
	if len(images) > maxImages {
		images = images[:maxImages]
	}
	car.Images = images

	description := firstText(doc, `[class*="description"], [class*="aciklama"]`, "p")
	if description == "" {
		description = title
	}
	car.Description = truncate(description, maxDescription)

	return car, price > 0
}

func cellText(cells *goquery.Selection, i int) string {
	return strings.TrimSpace(cells.Eq(i).Text())
}

// firstText returns the trimmed text of the first match of the first
// selector that yields any text.
func firstText(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		if t := strings.TrimSpace(doc.Find(sel).First().Text()); t != "" {
			return t
		}
	}
	return ""
}

func absolute(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if base == nil {
		return u.String()
	}
	return base.ResolveReference(u).String()
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
