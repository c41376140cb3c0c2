package mimecast

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// pageSchema is the minimal shape a search-log page must have before it is
// decoded. Unknown fields are allowed; the remote adds them freely. A missing
// or null meta/pagination means there is no further page.
const pageSchema = `{
  "type": "object",
  "properties": {
    "meta": {
      "type": ["object", "null"],
      "properties": {
        "pagination": {
          "type": ["object", "null"],
          "properties": {
            "next": {"type": ["string", "null"]},
            "totalCount": {"type": ["integer", "null"]},
            "pageSize": {"type": ["integer", "null"]}
          }
        }
      }
    },
    "data": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {
          "logs": {
            "type": ["array", "null"],
            "items": {
              "type": "object",
              "properties": {
                "createTime": {"type": ["string", "null"]},
                "emailAddr": {"type": ["string", "null"]}
              }
            }
          }
        }
      }
    },
    "fail": {"type": ["array", "null"]}
  }
}`

var compiledPageSchema = mustCompile(pageSchema)

func mustCompile(s string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic(fmt.Sprintf("mimecast: invalid page schema: %v", err))
	}
	return schema
}

func validatePage(raw []byte) error {
	result, err := compiledPageSchema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("page is not valid JSON: %w", err)
	}
	if !result.Valid() {
		var msgs []string
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return fmt.Errorf("unexpected page shape: %s", strings.Join(msgs, "; "))
	}
	return nil
}
