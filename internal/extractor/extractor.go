package extractor

import (
	"regexp"
	"strconv"
	"strings"

	"bot-itens/internal/models"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Cadeias ordenadas de fallback: cada camada tenta a próxima estratégia
// quando a anterior não encontra nada, nunca combina resultados. Assim o
// extrator tolera mudanças de markup degradando para campos nulos em vez
// de falhar.

var titleSelectors = []string{
	"h1.name span",
	"h1.name",
	"h1 span[data-title]",
	".name span",
	"h1",
}

var bestOfferSelectors = []string{
	".best-offer",
	"[class*='best-offer']",
	".price",
	"[class*='price']",
}

// Preço com prefixo "$12.34" e depois com sufixo "12.34 $"
var pricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$(\d+(?:\.\d+)?)`),
	regexp.MustCompile(`(\d+(?:\.\d+)?)\s*\$`),
}

// Preço rotulado pode carregar separador de milhar (ex: "$1,234.50")
var labeledPricePattern = regexp.MustCompile(`\$(\d+(?:,\d+)*(?:\.\d+)?)`)

var salesCountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Sales:\s*(\d+)`),
	regexp.MustCompile(`(?i)Sold:\s*(\d+)`),
	regexp.MustCompile(`(?i)(\d+)\s*sales`),
	regexp.MustCompile(`(?i)(\d+)\s*sold`),
}

// Extract renderiza a página do item e a converte em um registro parcial.
// Só retorna erro para falhas fatais de renderização; campos que não
// forem encontrados ficam nulos.
func Extract(r Renderer, url string) (*models.ItemData, error) {
	pageHTML, err := r.Render(url)
	if err != nil {
		return nil, err
	}
	return Parse(url, pageHTML)
}

// Parse extrai os dados do item a partir do HTML já renderizado.
// Separado de Extract para que as cadeias de fallback sejam testáveis
// sem navegador.
func Parse(url, pageHTML string) (*models.ItemData, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return nil, err
	}

	return &models.ItemData{
		URL:        url,
		Title:      extractTitle(doc),
		Price:      extractBestOffer(doc),
		AvgPrice:   extractLabeledPrice(doc, "Average price:"),
		SalesCount: extractSalesCount(doc),
	}, nil
}

// extractTitle tenta os seletores de título em ordem; vence o primeiro
// que casar com texto não vazio.
func extractTitle(doc *goquery.Document) *string {
	for _, selector := range titleSelectors {
		element := doc.Find(selector).First()
		if element.Length() == 0 {
			continue
		}
		if text := strings.TrimSpace(element.Text()); text != "" {
			return &text
		}
	}
	return nil
}

// extractBestOffer varre os seletores de preço em ordem e, para o texto
// de cada elemento encontrado, tenta os padrões de moeda em ordem.
// Vence o primeiro match em toda a busca (seletor × padrão).
func extractBestOffer(doc *goquery.Document) *string {
	for _, selector := range bestOfferSelectors {
		var found *string
		doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text := s.Text()
			for _, pattern := range pricePatterns {
				if m := pattern.FindStringSubmatch(text); m != nil {
					price := "$" + m[1]
					found = &price
					return false
				}
			}
			return true
		})
		if found != nil {
			return found
		}
	}
	return nil
}

// extractLabeledPrice localiza um nó de texto contendo o rótulo (sem
// diferenciar maiúsculas) e procura um preço em escopos progressivamente
// maiores: primeiro o texto do elemento que contém o rótulo, depois o do
// elemento pai.
func extractLabeledPrice(doc *goquery.Document, label string) *string {
	labelPattern := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(label))

	var found *string
	doc.Find("*").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		// Só interessa o elemento cujo texto próprio carrega o rótulo,
		// senão o elemento raiz casaria sempre
		if !labelPattern.MatchString(ownText(s)) {
			return true
		}

		for _, scope := range []*goquery.Selection{s, s.Parent()} {
			if m := labeledPricePattern.FindStringSubmatch(scope.Text()); m != nil {
				price := "$" + m[1]
				found = &price
				return false
			}
		}
		return true
	})
	return found
}

// extractSalesCount procura a contagem de vendas no texto da página
// inteira, tentando os padrões em ordem.
func extractSalesCount(doc *goquery.Document) *int64 {
	pageText := doc.Text()
	for _, pattern := range salesCountPatterns {
		m := pattern.FindStringSubmatch(pageText)
		if m == nil {
			continue
		}
		count, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			continue
		}
		return &count
	}
	return nil
}

// ownText retorna apenas o texto dos filhos diretos do elemento,
// excluindo o texto de elementos aninhados.
func ownText(s *goquery.Selection) string {
	var b strings.Builder
	for _, node := range s.Nodes {
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			if child.Type == html.TextNode {
				b.WriteString(child.Data)
			}
		}
	}
	return b.String()
}
