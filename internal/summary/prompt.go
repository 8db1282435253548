package summary

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// DefaultSystemPrompt steers summary generation. Deployments can override it
// through configuration.
const DefaultSystemPrompt = "Tu es un expert en intelligence artificielle qui crée des résumés clairs, concis et instructifs d'articles techniques. Tes résumés doivent être informatifs et pédagogiques."

// ArticleSystemPrompt steers long form article compilation.
const ArticleSystemPrompt = "Tu es un expert en rédaction d'articles SEO sur l'intelligence artificielle. Tu crées des contenus approfondis, structurés et optimisés pour le référencement."

// SummaryPrompt builds the user message asking for a 150-300 word French
// summary of an extracted page.
func SummaryPrompt(title, content string) string {
	return fmt.Sprintf(`Voici un article sur l'intelligence artificielle :

Titre : %s

Contenu :
%s

Crée un résumé détaillé et pédagogique de cet article en français. Le résumé doit :
1. Expliquer les points clés de manière claire
2. Être informatif et instructif
3. Faire entre 150-300 mots
4. Mettre en avant les nouveautés ou informations importantes

Résumé :`, title, content)
}

// SourceDoc is one source sheet fed into the article prompt.
type SourceDoc struct {
	SourceName string
	URL        string
	Title      string
	Summary    string
	Content    string
}

func sourceBlock(i int, d SourceDoc) string {
	return fmt.Sprintf(`
Source %d: %s
URL: %s
Titre: %s
Résumé: %s
Contenu complet extrait: %s
`, i+1, d.SourceName, d.URL, d.Title, d.Summary, d.Content)
}

// ArticlePrompt builds the user message asking for a long form SEO article in
// French compiled from the given sources.
func ArticlePrompt(theme string, sources []SourceDoc) string {
	blocks := lo.Map(sources, func(d SourceDoc, i int) string { return sourceBlock(i, d) })
	sourcesText := strings.Join(blocks, "\n\n")

	return fmt.Sprintf(`Rédige un article SEO approfondi et détaillé sur le thème "%s" en français, en utilisant les sources fournies.

SOURCES COMPLÈTES :
%s

CONSIGNES STRICTES :
1. **Format Markdown** : Utilise la syntaxe Markdown pour tout le formatage
2. **Structure SEO optimale** :
   - 1 titre H1 (# Titre principal)
   - Plusieurs H2 (## Section) et H3 (### Sous-section)
   - Introduction engageante avec le mot-clé principal
   - Conclusion avec appel à l'action
3. **Longueur** : MINIMUM 1500 mots (c'est crucial pour le SEO)
4. **Contenu approfondi** :
   - Analyse détaillée de chaque source
   - Exemples concrets et cas d'usage
   - Données techniques et chiffres issus des sources
   - Explications pédagogiques et vulgarisation
   - Perspectives et implications
5. **SEO** :
   - Intégration naturelle des mots-clés
   - Paragraphes de 3-5 phrases
   - Listes à puces pour la lisibilité
   - Liens internes logiques entre sections
6. **Ton** : Professionnel, informatif, pédagogique

STRUCTURE SUGGÉRÉE :
# [Titre Principal Accrocheur]

## Introduction
[150-200 mots introduisant le sujet avec le contexte]

## Contexte et Enjeux
[300-400 mots sur le contexte général]

## Analyse Détaillée
[500-600 mots analysant les sources en profondeur]

## Cas d'Usage et Applications
[300-400 mots sur les applications pratiques]

## Perspectives et Avenir
[200-300 mots sur les implications futures]

## Conclusion
[100-150 mots de synthèse]

Génère maintenant l'article complet :`, theme, sourcesText)
}
