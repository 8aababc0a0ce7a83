package classify

import "strings"

// Certification is a recognized sustainability label
type Certification string

const (
	CertNytNorge           Certification = "Nyt Norge"
	CertDebio              Certification = "Debio"
	CertSvanemerket        Certification = "Svanemerket"
	CertEUOrganic          Certification = "EU organic"
	CertOkologisk          Certification = "Økologisk"
	CertMSC                Certification = "MSC"
	CertASC                Certification = "ASC"
	CertFairtrade          Certification = "Fairtrade"
	CertRainforestAlliance Certification = "Rainforest Alliance"
)

var certificationKeywords = []struct {
	cert     Certification
	keywords []string
}{
	{CertNytNorge, []string{"nyt norge", "nyt-norge", "nytnorge"}},
	{CertDebio, []string{"debio"}},
	{CertSvanemerket, []string{"svanemerket", "svanemerke", "nordic swan", "nordic ecolabel"}},
	{CertEUOrganic, []string{"eu organic", "eu-organic", "eu-økologisk", "eu økologisk", "organic eu"}},
	{CertOkologisk, []string{"økologisk", "okologisk", "ø-merket"}},
	{CertMSC, []string{"msc"}},
	{CertASC, []string{"asc"}},
	{CertFairtrade, []string{"fairtrade", "fair trade"}},
	{CertRainforestAlliance, []string{"rainforest alliance", "rainforest-alliance"}},
}

// MatchCertifications returns the distinct recognized certifications found in
// the label set, in the fixed order of the keyword table. Matched words are
// consumed, so "EU-økologisk" is EU organic only and not also Økologisk.
func MatchCertifications(labels []string) []Certification {
	folded := Fold(strings.Join(labels, " | "))
	var found []Certification
	for _, entry := range certificationKeywords {
		var matched bool
		if folded, matched = consumeKeywords(folded, entry.keywords); matched {
			found = append(found, entry.cert)
		}
	}
	return found
}

// RecognizedCertifications lists every certification the classifier knows
func RecognizedCertifications() []Certification {
	out := make([]Certification, 0, len(certificationKeywords))
	for _, entry := range certificationKeywords {
		out = append(out, entry.cert)
	}
	return out
}
