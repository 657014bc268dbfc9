package scraper

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"galeri/internal/models"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBrandModel(t *testing.T) {
	tests := []struct {
		title, brand, model string
	}{
		{"Opel Corsa 1.4 Enjoy", "Opel", "Corsa 1.4 Enjoy"},
		{"BMW 3 Serisi 320i", "BMW", "3 Serisi 320i"},
		{"Land Rover Defender", "Land", "Rover Defender"},
		{"Yeni Renault Clio", "Yeni Renault", "Clio"},
		{"Tesla", "Tesla", "Tesla"},
		{"   ", UnknownBrand, UnknownBrand},
	}
	for _, tt := range tests {
		brand, model := ParseBrandModel(tt.title)
		assert.Equal(t, tt.brand, brand, tt.title)
		assert.Equal(t, tt.model, model, tt.title)
	}
}

func TestMapFuelAndTransmission(t *testing.T) {
	assert.Equal(t, models.FuelDiesel, MapFuelType("Clio 1.5 dCi Touch"))
	assert.Equal(t, models.FuelDiesel, MapFuelType("Golf 1.6 TDI"))
	assert.Equal(t, models.FuelHybrid, MapFuelType("C-HR Hibrit"))
	assert.Equal(t, models.FuelElectric, MapFuelType("Elektrik"))
	assert.Equal(t, models.FuelLPG, MapFuelType("Fabrika çıkışı LPG"))
	assert.Equal(t, models.FuelPetrol, MapFuelType("1.4 Enjoy"))

	assert.Equal(t, models.TransmissionAutomatic, MapTransmission("EDC Otomatik"))
	assert.Equal(t, models.TransmissionAutomatic, MapTransmission("Automatic"))
	assert.Equal(t, models.TransmissionManual, MapTransmission("Düz vites"))
}

func TestParseNumber(t *testing.T) {
	assert.Equal(t, 960000, ParseNumber("960.000 TL"))
	assert.Equal(t, 97000, ParseNumber("97.000 km"))
	assert.Equal(t, 0, ParseNumber("-"))
}

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestParseTable(t *testing.T) {
	base, _ := url.Parse("https://www.arabam.com/galeri/ornek-oto")
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	doc := mustDoc(t, `<table><tbody>
<tr><td><img data-src="/img/1.jpg"></td><td>Renault Clio</td><td>1.5 dCi Touch EDC Otomatik</td><td>2019</td><td>45.000 km</td><td>Beyaz</td><td>960.000 TL</td></tr>
<tr><td><img src="https://cdn.arabam.com/2.jpg"></td><td>Fiat Egea</td><td>1.4 Fire Easy</td><td>-</td><td>120.000</td><td>-</td><td>650.000 TL</td></tr>
<tr><td></td><td>Ford Focus</td><td>1.6 Trend X</td><td>2015</td><td>150.000</td><td>Gri</td><td>Sorunuz</td></tr>
<tr><td></td><td></td><td>Sahibinden temiz</td><td>2012</td><td>210.000</td><td>Mavi</td><td>410.000 TL</td></tr>
</tbody></table>`)

	cars, skipped := parseTable(doc, base, now)
	require.Len(t, cars, 3)
	require.Len(t, skipped, 1)
	assert.Contains(t, skipped[0], "row 3")

	clio := cars[0]
	assert.Equal(t, "Renault", clio.Brand)
	assert.Equal(t, "Clio", clio.Model)
	assert.Equal(t, 2019, clio.Year)
	assert.Equal(t, 45000, clio.Km)
	assert.Equal(t, 960000.0, clio.Price)
	assert.Equal(t, models.FuelDiesel, clio.FuelType)
	assert.Equal(t, models.TransmissionAutomatic, clio.TransmissionType)
	assert.Equal(t, "Beyaz", clio.Color)
	assert.Equal(t, []string{"https://www.arabam.com/img/1.jpg"}, clio.Images)

	egea := cars[1]
	assert.Equal(t, 2025, egea.Year)
	assert.Equal(t, models.DefaultColor, egea.Color)
	assert.Equal(t, models.FuelPetrol, egea.FuelType)
	assert.Equal(t, []string{"https://cdn.arabam.com/2.jpg"}, egea.Images)

	untitled := cars[2]
	assert.Equal(t, UnknownBrand, untitled.Brand)
	assert.Equal(t, UnknownBrand, untitled.Model)
	assert.Equal(t, 410000.0, untitled.Price)
	assert.Equal(t, "Mavi", untitled.Color)
}

func TestCollectDetailLinks(t *testing.T) {
	base, _ := url.Parse("https://www.arabam.com/galeri/x")
	doc := mustDoc(t, `<div>
<a href="/ilan/galeriden-satilik-a/1">a</a>
<a href="/ilan/galeriden-satilik-a/1">dup</a>
<a href="https://www.arabam.com/ilan/b/2">b</a>
<a href="/hakkimizda">about</a>
<a href="/ilan/c/3">c</a>
</div>`)

	links := collectDetailLinks(doc, base, 2)
	assert.Equal(t, []string{
		"https://www.arabam.com/ilan/galeriden-satilik-a/1",
		"https://www.arabam.com/ilan/b/2",
	}, links)
}

func TestParseDetail(t *testing.T) {
	pageURL, _ := url.Parse("https://www.arabam.com/ilan/x/1")
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	long := strings.Repeat("ç", 600)
	doc := mustDoc(t, `<html><head><title>ignored</title></head><body>
<h1>Toyota Corolla 1.6 Vision</h1>
<div class="product-price">1.250.000 TL</div>
<ul class="spec-list"><li>2021 model</li><li>32.500 km</li><li>Hibrit</li><li>Otomatik</li><li>Renk: kırmızı</li></ul>
<img src="https://arbstorage.mncdn.com/arabam/1.jpg">
<img src="https://arbstorage.mncdn.com/arabam/1.jpg">
<img src="https://www.arabam.com/static/logo.svg">
<img data-src="/arabam/2.jpg">
<div class="description">`+long+`</div>
</body></html>`)

	car, ok := parseDetail(doc, pageURL, now)
	require.True(t, ok)
	assert.Equal(t, "Toyota", car.Brand)
	assert.Equal(t, "Corolla 1.6 Vision", car.Model)
	assert.Equal(t, 1250000.0, car.Price)
	assert.Equal(t, 2021, car.Year)
	assert.Equal(t, 32500, car.Km)
	assert.Equal(t, models.FuelHybrid, car.FuelType)
	assert.Equal(t, models.TransmissionAutomatic, car.TransmissionType)
	assert.Equal(t, "Kırmızı", car.Color)
	assert.Equal(t, []string{
		"https://arbstorage.mncdn.com/arabam/1.jpg",
		"https://www.arabam.com/arabam/2.jpg",
	}, car.Images)
	assert.Equal(t, 500, len([]rune(car.Description)))
}

func TestParseDetailWithoutPrice(t *testing.T) {
	pageURL, _ := url.Parse("https://www.arabam.com/ilan/x/2")
	doc := mustDoc(t, `<h1>Opel Astra</h1><p>Fiyat sorunuz</p>`)

	car, ok := parseDetail(doc, pageURL, time.Now())
	assert.False(t, ok)
	assert.Equal(t, "Fiyat sorunuz", car.Description)
}
