package search

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/FACorreiaa/frugal-finder/internal/app/models"
)

const DefaultModel = "gemini-2.5-flash"

const categoryInstruction = `"groceries", "clothing", "gas", or "other"`

const groundedPromptTemplate = `Find cheap alternatives for %s near latitude %.6f, longitude %.6f. ` +
	`Based on the map search results, generate a JSON array of objects. ` +
	`Each object should correspond to a place found and contain exactly these keys: "summary", "product", "price", and "category". ` +
	`For the "category" key, use one of the following values: ` + categoryInstruction + `. ` +
	`Do not add any text before or after the JSON array. ` +
	`Make sure the order of items in your response matches the order of places in the search results.`

const generatedPromptTemplate = `Find cheap alternatives for %s near %s. ` +
	`Generate a JSON array of objects. ` +
	`Each object should correspond to a place and contain these keys: "title", "summary", "product", "price", "category", "uri" (a Google Maps link), ` +
	`and "location" (with "latitude" and "longitude" sub-keys). ` +
	`For "category", use: ` + categoryInstruction + `. ` +
	`Respond with only the JSON array.`

// RequestBuilder turns a query and a resolved location into a provider request.
// It does no I/O and always produces the same prompt for the same input.
type RequestBuilder struct {
	model string
}

func NewRequestBuilder(model string) *RequestBuilder {
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	return &RequestBuilder{model: model}
}

func (b *RequestBuilder) Build(query string, mode models.LocationMode) (models.SearchRequest, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return models.SearchRequest{}, models.NewInvalidInput(models.MsgMissingQuery)
	}

	req := models.SearchRequest{
		Query:    query,
		Location: mode,
		Model:    b.model,
	}

	switch mode.Kind {
	case models.LocationCoordinate:
		req.Kind = models.ResponseGrounded
		req.Prompt = fmt.Sprintf(groundedPromptTemplate, strconv.Quote(query), mode.Coordinate.Latitude, mode.Coordinate.Longitude)
	case models.LocationFreeText:
		text := strings.TrimSpace(mode.Text)
		if text == "" {
			return models.SearchRequest{}, models.NewInvalidInput(models.MsgMissingLocation)
		}
		req.Kind = models.ResponseGenerated
		req.Prompt = fmt.Sprintf(generatedPromptTemplate, strconv.Quote(query), strconv.Quote(text))
	default:
		return models.SearchRequest{}, models.NewInvalidInput(models.MsgMissingLocation)
	}

	return req, nil
}
