package user

import (
	"regexp"
	"strings"
)

// SearchKind classifica o termo livre de busca.
type SearchKind int

const (
	// SearchText dispara as consultas por prefixo em nome/sobrenome.
	SearchText SearchKind = iota
	// SearchEmail dispara busca exata por e-mail.
	SearchEmail
	// SearchCPF dispara busca exata por CPF normalizado.
	SearchCPF
)

// prefixUpperBound fecha o intervalo de uma busca "começa com":
//  ordena depois de qualquer caractere usual em UTF-8, então
// `campo >= termo && campo < termo+sentinela` seleciona o prefixo.
const prefixUpperBound = ""

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	cpfPattern   = regexp.MustCompile(`^\d{3}\.?\d{3}\.?\d{3}-?\d{2}$`)
	nonDigits    = regexp.MustCompile(`\D`)
)

// ClassifySearch decide qual ramo de consulta o termo aciona.
// Os ramos são mutuamente exclusivos: apenas um executa por chamada.
func ClassifySearch(term string) SearchKind {
	term = strings.TrimSpace(term)
	switch {
	case emailPattern.MatchString(term):
		return SearchEmail
	case cpfPattern.MatchString(term):
		return SearchCPF
	default:
		return SearchText
	}
}

// NormalizeCPF remove pontuação, mantendo apenas dígitos.
func NormalizeCPF(raw string) string {
	return nonDigits.ReplaceAllString(raw, "")
}
