package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyOrigin(t *testing.T) {
	tests := []struct {
		name   string
		origin string
		want   OriginClass
	}{
		{"norwegian name", "Norge", OriginNorway},
		{"english name mixed case", "Product of NORWAY", OriginNorway},
		{"sweden", "Sverige", OriginNordic},
		{"denmark english", "Denmark", OriginNordic},
		{"finland", "Finland", OriginNordic},
		{"eu near country", "Spania", OriginEU},
		{"eu abbreviation", "EU", OriginEU},
		{"far away country", "Peru", OriginFar},
		{"far away english", "South Africa", OriginFar},
		{"new zealand", "New Zealand", OriginFar},
		{"earliest country wins", "Norge, Sverige", OriginNorway},
		{"packed in norway is not norwegian origin", "Spania, pakket i Norge", OriginEU},
		{"produced in sweden for norway", "Produsert i Sverige for Norge", OriginNordic},
		{"eu abbreviation before norway", "EU/Norge", OriginEU},
		{"unmatched", "Atlantis", OriginUnknown},
		{"empty", "", OriginUnknown},
		{"eu is not matched inside words", "Europa-skogen", OriginUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyOrigin(tt.origin))
		})
	}
}

func TestIsNorwegian(t *testing.T) {
	assert.True(t, IsNorwegian("", "Nyt Norge"))
	assert.True(t, IsNorwegian("Norway"))
	assert.True(t, IsNorwegian("Spania", "norsk produsert"))
	assert.False(t, IsNorwegian("Spania, pakket i Norge"))
	assert.False(t, IsNorwegian("Sverige"))
	assert.False(t, IsNorwegian())
	assert.False(t, IsNorwegian("", ""))
}

func TestMatchCertifications(t *testing.T) {
	tests := []struct {
		name   string
		labels []string
		want   []Certification
	}{
		{
			name:   "two norwegian labels",
			labels: []string{"Økologisk", "Nyt Norge"},
			want:   []Certification{CertNytNorge, CertOkologisk},
		},
		{
			name:   "case insensitive",
			labels: []string{"FAIRTRADE", "nordic swan ecolabel"},
			want:   []Certification{CertSvanemerket, CertFairtrade},
		},
		{
			name:   "duplicates count once",
			labels: []string{"Debio", "debio", "DEBIO"},
			want:   []Certification{CertDebio},
		},
		{
			name:   "short keyword needs whole word",
			labels: []string{"Mascarpone"},
			want:   nil,
		},
		{
			name:   "short keyword as word",
			labels: []string{"MSC-certified"},
			want:   []Certification{CertMSC},
		},
		{
			name:   "eu organic label counts once",
			labels: []string{"EU-økologisk"},
			want:   []Certification{CertEUOrganic},
		},
		{
			name:   "eu organic and a separate organic label",
			labels: []string{"EU-økologisk", "Økologisk"},
			want:   []Certification{CertEUOrganic, CertOkologisk},
		},
		{
			name:   "eu ecolabel is not organic",
			labels: []string{"EU Ecolabel"},
			want:   nil,
		},
		{
			name:   "nothing recognized",
			labels: []string{"Glutenfri", "Vegansk"},
			want:   nil,
		},
		{
			name:   "no labels",
			labels: nil,
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchCertifications(tt.labels))
		})
	}
}

func TestRecognizedCertifications(t *testing.T) {
	assert.Len(t, RecognizedCertifications(), 9)
}

func TestContainsWordPrefix(t *testing.T) {
	assert.True(t, ContainsWordPrefix("tine lettmelk", "lett"))
	assert.True(t, ContainsWordPrefix("melkesjokolade", "melk"))
	assert.False(t, ContainsWordPrefix("lettmelk", "melk"))
	assert.False(t, ContainsWordPrefix("melk", ""))
}

func TestDetectMaterials(t *testing.T) {
	tests := []struct {
		name  string
		texts []string
		want  []string
	}{
		{"glass bottle", []string{"Glassflaske"}, []string{MaterialGlass}},
		{"off tag", []string{"en:pet-1-polyethylene-terephthalate"}, []string{MaterialPET, MaterialPlastic}},
		{"cardboard norwegian", []string{"Kartong"}, []string{MaterialCardboard}},
		{"recyclable plastic", []string{"resirkulerbar plast"}, []string{MaterialRecyclablePlastic, MaterialPlastic}},
		{"plain plastic", []string{"plastpose"}, []string{MaterialPlastic}},
		{"petit is not pet", []string{"petit"}, nil},
		{"empty", []string{""}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectMaterials(tt.texts...))
		})
	}
}

func TestClassifyPackaging(t *testing.T) {
	tests := []struct {
		name      string
		materials []string
		text      string
		want      PackagingClass
	}{
		{"glass tag", []string{"glass"}, "", PackagingFiberOrGlass},
		{"paper text", nil, "papirpose", PackagingFiberOrGlass},
		{"glass beats plastic", []string{"plastic", "glass"}, "", PackagingFiberOrGlass},
		{"pet", []string{"pet"}, "", PackagingRecyclablePlastic},
		{"recyclable plastic text", nil, "Recyclable plastic tray", PackagingRecyclablePlastic},
		{"generic plastic", nil, "plast", PackagingPlastic},
		{"metal only", []string{"metal"}, "", PackagingUnknown},
		{"nothing", nil, "", PackagingUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyPackaging(tt.materials, tt.text))
		})
	}
}

func TestContainsWord(t *testing.T) {
	assert.True(t, ContainsWord("msc certified", "msc"))
	assert.True(t, ContainsWord("label: asc", "asc"))
	assert.False(t, ContainsWord("mascot", "asc"))
	assert.True(t, ContainsWord("fra eu", "eu"))
	assert.False(t, ContainsWord("", "eu"))
	assert.False(t, ContainsWord("eu", ""))
}

func TestExtractOrigin(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Opprinnelsesland: Spania. Oppbevares kjølig", "Spania"},
		{"Produsert i Norge av Tine SA", "Norge"},
		{"Grown in South Africa", "South Africa"},
		{"Country of origin: New Zealand, packed in Norway", "New Zealand"},
		{"Ingen informasjon", ""},
		{"Produsert i ", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractOrigin(tt.text))
		})
	}
}
