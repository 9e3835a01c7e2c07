package search

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Wire shape of an article search response. Pointers mark the fields whose
// absence makes a response unusable.
type wireEnvelope struct {
	Status   string        `json:"status,omitempty"`
	Fault    *wireFault    `json:"fault,omitempty"`
	Response *wireResponse `json:"response"`
}

type wireFault struct {
	FaultString string `json:"faultstring"`
}

type wireResponse struct {
	Meta     *wireMeta  `json:"meta,omitempty"`
	Metadata *wireMeta  `json:"metadata,omitempty"`
	Docs     *[]wireDoc `json:"docs"`
}

type wireMeta struct {
	Hits   *int `json:"hits"`
	Offset int  `json:"offset"`
}

type wireDoc struct {
	ID       string         `json:"_id"`
	WebURL   string         `json:"web_url,omitempty"`
	Keywords *[]wireKeyword `json:"keywords"`
}

type wireKeyword struct {
	Name  string  `json:"name"`
	Value *string `json:"value"`
	Rank  int     `json:"rank"`
}

func decodeEnvelope(body []byte) (*wireResponse, error) {
	var env wireEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &MalformedResponseError{Field: "body", Err: err}
	}
	if env.Response == nil {
		return nil, missing("response")
	}
	return env.Response, nil
}

// hits reads response.meta.hits. Newer deployments name the block "metadata".
func (r *wireResponse) hits() (int, error) {
	m := r.Meta
	if m == nil {
		m = r.Metadata
	}
	if m == nil {
		return 0, missing("response.meta")
	}
	if m.Hits == nil {
		return 0, missing("response.meta.hits")
	}
	if *m.Hits < 0 {
		return 0, &MalformedResponseError{Field: "response.meta.hits", Err: fmt.Errorf("negative value %d", *m.Hits)}
	}
	return *m.Hits, nil
}

func (r *wireResponse) documents() ([]Document, error) {
	if r.Docs == nil {
		return nil, missing("response.docs")
	}
	return convertDocs("response.docs", *r.Docs)
}

// convertDocs checks and converts decoded documents. field prefixes the path
// reported for a missing keywords list or keyword value.
func convertDocs(field string, docs []wireDoc) ([]Document, error) {
	out := make([]Document, 0, len(docs))
	for i, d := range docs {
		if d.Keywords == nil {
			return nil, missing(fmt.Sprintf("%s[%d].keywords", field, i))
		}
		doc := Document{ID: d.ID, WebURL: d.WebURL, Keywords: make([]Keyword, 0, len(*d.Keywords))}
		for j, k := range *d.Keywords {
			if k.Value == nil {
				return nil, missing(fmt.Sprintf("%s[%d].keywords[%d].value", field, i, j))
			}
			doc.Keywords = append(doc.Keywords, Keyword{Name: k.Name, Value: *k.Value, Rank: k.Rank})
		}
		out = append(out, doc)
	}
	return out, nil
}

// WritePage encodes one page in the service's wire shape. The stub server and
// tests use it so fixtures and the live service share one format.
func WritePage(w io.Writer, hits int, page int, docs []Document) error {
	wdocs := make([]wireDoc, 0, len(docs))
	for _, d := range docs {
		kws := make([]wireKeyword, 0, len(d.Keywords))
		for _, k := range d.Keywords {
			v := k.Value
			kws = append(kws, wireKeyword{Name: k.Name, Value: &v, Rank: k.Rank})
		}
		wdocs = append(wdocs, wireDoc{ID: d.ID, WebURL: d.WebURL, Keywords: &kws})
	}
	h := hits
	env := wireEnvelope{
		Status: "OK",
		Response: &wireResponse{
			Meta: &wireMeta{Hits: &h, Offset: page * PageSize},
			Docs: &wdocs,
		},
	}
	return json.NewEncoder(w).Encode(&env)
}

// maxFaultBytes bounds a raw error body quoted in a ServiceError.
const maxFaultBytes = 200

func faultMessage(body []byte) string {
	var env wireEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Fault != nil {
		return env.Fault.FaultString
	}
	s := strings.TrimSpace(string(body))
	if len(s) > maxFaultBytes {
		cut := maxFaultBytes
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	return s
}
