package catalog

import "strings"

// Keyword lists used to auto-classify materials created from purchase line
// items. Matching is case-insensitive substring; the first list that matches
// wins, checked in order tool, consumable, electrical material.
var (
	toolKeywords = []string{
		"alicate", "chave", "furadeira", "martelo", "serra", "trena",
		"parafusadeira", "escada", "ferramenta", "multimetro", "multímetro",
		"decapador",
	}
	consumableKeywords = []string{
		"fita", "abracadeira", "abraçadeira", "parafuso", "bucha", "arruela",
		"solda", "silicone", "vedacao", "vedação", "lixa", "broca", "luva descart",
	}
	electricalKeywords = []string{
		"cabo", "fio", "disjuntor", "tomada", "interruptor", "lampada", "lâmpada",
		"luminaria", "luminária", "eletroduto", "quadro", "rele", "relé",
		"contator", "transformador", "condulete", "terminal", "barramento",
	}
)

// ClassifyMaterial picks a category for a product name using the keyword
// lists, defaulting to electrical material when nothing matches.
func ClassifyMaterial(productName string) MaterialCategory {
	name := strings.ToLower(productName)

	for _, kw := range toolKeywords {
		if strings.Contains(name, kw) {
			return CategoryTool
		}
	}
	for _, kw := range consumableKeywords {
		if strings.Contains(name, kw) {
			return CategoryConsumable
		}
	}
	for _, kw := range electricalKeywords {
		if strings.Contains(name, kw) {
			return CategoryElectricalMaterial
		}
	}
	return CategoryElectricalMaterial
}
