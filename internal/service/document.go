package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"

	"github.com/museumaceh/baservice/internal/config"
	"github.com/museumaceh/baservice/internal/domain"
)

// DocumentService renders the official printable berita acara document.
// Rendered documents are cached: the transaction-time fields on a committed
// transfer never change, so a short TTL is only needed to pick up edits to
// the referenced staff or collection descriptions.
type DocumentService struct {
	museum config.Museum
	tmpl   *template.Template
	cache  *cache.Cache
}

func NewDocumentService(museum config.Museum) *DocumentService {
	return &DocumentService{
		museum: museum,
		tmpl: template.Must(template.New("ba").Funcs(template.FuncMap{
			"addOne": func(i int) int { return i + 1 },
		}).Parse(documentTemplate)),
		cache:  cache.New(10*time.Minute, 15*time.Minute),
	}
}

type documentData struct {
	Museum       config.Museum
	Detail       *domain.TransferDetail
	DateSentence string
	DateShort    string
}

// Render produces the document HTML for one transfer detail.
func (s *DocumentService) Render(ctx context.Context, detail *domain.TransferDetail) (string, error) {
	if cached, found := s.cache.Get(detail.ID); found {
		return cached.(string), nil
	}

	data := documentData{
		Museum:       s.museum,
		Detail:       detail,
		DateSentence: DateToSentence(detail.TransferDate),
		DateShort:    dateShort(detail.TransferDate),
	}

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return "", errors.Wrap(err, "failed to render document")
	}

	html := buf.String()
	s.cache.Set(detail.ID, html, cache.DefaultExpiration)
	return html, nil
}

var dayNames = []string{"Minggu", "Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu"}

var monthNames = []string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

var oneWords = []string{
	"", "Satu", "Dua", "Tiga", "Empat", "Lima",
	"Enam", "Tujuh", "Delapan", "Sembilan", "Sepuluh",
	"Sebelas", "Dua Belas", "Tiga Belas", "Empat Belas", "Lima Belas",
	"Enam Belas", "Tujuh Belas", "Delapan Belas", "Sembilan Belas",
}

var tenWords = []string{
	"", "", "Dua Puluh", "Tiga Puluh", "Empat Puluh", "Lima Puluh",
	"Enam Puluh", "Tujuh Puluh", "Delapan Puluh", "Sembilan Puluh",
}

// NumberToWords spells n in formal Indonesian, as required on the document
// ("2026" becomes "Dua Ribu Dua Puluh Enam"). Supported up to 9999.
func NumberToWords(n int) string {
	switch {
	case n < 20:
		return oneWords[n]
	case n < 100:
		return strings.TrimSpace(tenWords[n/10] + " " + oneWords[n%10])
	case n < 1000:
		head := "Seratus"
		if n/100 > 1 {
			head = oneWords[n/100] + " Ratus"
		}
		if n%100 == 0 {
			return head
		}
		return head + " " + NumberToWords(n%100)
	case n < 10000:
		head := "Seribu"
		if n/1000 > 1 {
			head = oneWords[n/1000] + " Ribu"
		}
		if n%1000 == 0 {
			return head
		}
		return head + " " + NumberToWords(n%1000)
	}
	return fmt.Sprintf("%d", n)
}

// DateToSentence writes a date the way the document opens: "Jumat, Tiga Belas
// Februari Tahun Dua Ribu Dua Puluh Enam".
func DateToSentence(t time.Time) string {
	return fmt.Sprintf("%s, %s %s Tahun %s",
		dayNames[int(t.Weekday())],
		NumberToWords(t.Day()),
		monthNames[int(t.Month())-1],
		NumberToWords(t.Year()),
	)
}

func dateShort(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), monthNames[int(t.Month())-1], t.Year())
}

const documentTemplate = `<!DOCTYPE html>
<html lang="id">
<head>
<meta charset="utf-8">
<title>Berita Acara {{.Detail.DocumentNumber}}</title>
<style>
  body { font-family: "Times New Roman", serif; font-size: 12pt; margin: 2cm; }
  .letterhead { text-align: center; border-bottom: 3px double #000; padding-bottom: 8px; }
  .letterhead h1 { font-size: 14pt; margin: 0; text-transform: uppercase; }
  .letterhead p { margin: 2px 0; font-size: 10pt; }
  .title { text-align: center; margin-top: 24px; }
  .title h2 { font-size: 13pt; text-decoration: underline; margin-bottom: 2px; }
  table.parties td { vertical-align: top; padding: 2px 8px 2px 0; }
  table.appendix { width: 100%; border-collapse: collapse; margin-top: 12px; }
  table.appendix th, table.appendix td { border: 1px solid #000; padding: 4px 6px; font-size: 10pt; }
  .center { text-align: center; }
  .signatures { width: 100%; margin-top: 48px; }
  .signatures td { width: 50%; text-align: center; padding-top: 8px; }
  .space { height: 64px; }
  .page-break { page-break-before: always; }
</style>
</head>
<body>
  <div class="letterhead">
    <h1>{{.Museum.Name}}</h1>
    <p>{{.Museum.Address}}</p>
  </div>

  <div class="title">
    <h2>BERITA ACARA {{.Detail.Type}}</h2>
    <p>Nomor: {{.Detail.DocumentNumber}}</p>
  </div>

  <p>Pada hari ini {{.DateSentence}}, yang bertanda tangan di bawah ini:</p>

  <table class="parties">
    <tr><td>PIHAK PERTAMA</td><td>:</td><td>
      {{- if .Detail.Party1}}{{.Detail.Party1.Name}}, NIP {{.Detail.Party1.IDNumber}}, {{.Detail.Party1.Title}}{{else}}&mdash;{{end}}</td></tr>
    <tr><td>PIHAK KEDUA</td><td>:</td><td>
      {{- if .Detail.Party2}}{{.Detail.Party2.Name}}, NIP {{.Detail.Party2.IDNumber}}, {{.Detail.Party2.Title}}{{else}}&mdash;{{end}}</td></tr>
  </table>

  <p>PIHAK PERTAMA menyerahkan kepada PIHAK KEDUA koleksi sebagaimana
  tercantum dalam lampiran berita acara ini ({{len .Detail.Items}} koleksi),
  dalam rangka {{.Detail.Type}}.</p>

  <table class="signatures">
    <tr>
      <td>PIHAK KEDUA</td>
      <td>{{.Museum.City}}, {{.DateShort}}<br>PIHAK PERTAMA</td>
    </tr>
    <tr><td class="space"></td><td class="space"></td></tr>
    <tr>
      <td>{{if .Detail.Party2}}<u>{{.Detail.Party2.Name}}</u><br>NIP {{.Detail.Party2.IDNumber}}{{end}}</td>
      <td>{{if .Detail.Party1}}<u>{{.Detail.Party1.Name}}</u><br>NIP {{.Detail.Party1.IDNumber}}{{end}}</td>
    </tr>
  </table>

  {{if or .Detail.Witness1 .Detail.Witness2}}
  <p class="center">Saksi-saksi:</p>
  <table class="signatures">
    <tr>
      <td>{{if .Detail.Witness1}}<u>{{.Detail.Witness1.Name}}</u><br>NIP {{.Detail.Witness1.IDNumber}}{{end}}</td>
      <td>{{if .Detail.Witness2}}<u>{{.Detail.Witness2.Name}}</u><br>NIP {{.Detail.Witness2.IDNumber}}{{end}}</td>
    </tr>
  </table>
  {{end}}

  <div class="page-break"></div>

  <div class="title"><h2>LAMPIRAN: DAFTAR KOLEKSI</h2>
    <p>Berita Acara Nomor: {{.Detail.DocumentNumber}}</p>
  </div>

  <table class="appendix">
    <tr>
      <th>No.</th><th>No. Inventaris</th><th>Nama Koleksi</th>
      <th>Jenis</th><th>Kondisi</th><th>Keterangan</th>
    </tr>
    {{range $i, $item := .Detail.Items}}
    <tr>
      <td class="center">{{addOne $i}}</td>
      <td class="center">{{if $item.Collection}}{{$item.Collection.InventoryNumber}}{{else}}&mdash;{{end}}</td>
      <td>{{if $item.Collection}}{{$item.Collection.Name}}{{else}}&mdash;{{end}}</td>
      <td class="center">{{if $item.Collection}}{{$item.Collection.Category}}{{else}}&mdash;{{end}}</td>
      <td>{{$item.Condition}}</td>
      <td>{{$item.Notes}}</td>
    </tr>
    {{end}}
  </table>
</body>
</html>
`
