package ncerr

import (
	"fmt"
	"testing"

	"encoding/json"

	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	for _, tc := range []struct {
		err *Error

		error string
		json  string
	}{
		{
			err:   UnknownElement("/interfaces/foo"),
			error: "binding warning tag:unknown-element path:/interfaces/foo",
			json:  `{"type":"binding","tag":"unknown-element","severity":"warning","path":"/interfaces/foo"}`,
		},

		{
			err:   UnknownNamespace("/a", "urn:x"),
			error: "binding warning tag:unknown-namespace path:/a bad-namespace:urn:x",
			json:  `{"type":"binding","tag":"unknown-namespace","severity":"warning","path":"/a","info":{"bad-namespace":"urn:x"}}`,
		},

		{
			err:   NotConfigurable("/a/b", WithFile("f.xml")),
			error: "binding warning tag:not-configurable file:f.xml path:/a/b",
			json:  `{"type":"binding","tag":"not-configurable","severity":"warning","file":"f.xml","path":"/a/b"}`,
		},

		{
			err:   MalformedMessage(WithMessage("EOF"), WithSeverity(SeverityWarning)),
			error: "instance error tag:malformed-message EOF",
			json:  `{"type":"instance","tag":"malformed-message","severity":"error","message":"EOF"}`,
		},

		{
			err:   NotSubset("a_example.xml"),
			error: "instance warning tag:not-subset file:a_example.xml bad-element:a_example.xml",
			json:  `{"type":"instance","tag":"not-subset","severity":"warning","file":"a_example.xml","info":{"bad-element":"a_example.xml"}}`,
		},

		{
			err:   MissingModule("urn:x"),
			error: "schema warning tag:missing-module bad-namespace:urn:x",
			json:  `{"type":"schema","tag":"missing-module","severity":"warning","info":{"bad-namespace":"urn:x"}}`,
		},

		{
			err:   ParseFailed("a.yang", WithMessage("boom")),
			error: "schema warning tag:parse-failed file:a.yang boom",
			json:  `{"type":"schema","tag":"parse-failed","severity":"warning","file":"a.yang","message":"boom"}`,
		},

		{
			err:   EmptyRestriction("/x/y", WithBadElement("y")),
			error: "binding warning tag:empty-restriction path:/x/y bad-element:y",
			json:  `{"type":"binding","tag":"empty-restriction","severity":"warning","path":"/x/y","info":{"bad-element":"y"}}`,
		},

		{
			err:   UnknownElement("/a", WithPath("/b"), WithType(TypeSchema), WithSeverity(SeverityError)),
			error: "schema error tag:unknown-element path:/b",
			json:  `{"type":"schema","tag":"unknown-element","severity":"error","path":"/b"}`,
		},

		{
			err:   OperationFailed(),
			error: "output error tag:operation-failed",
			json:  `{"type":"output","tag":"operation-failed","severity":"error"}`,
		},
	} {
		t.Run(fmt.Sprintf("%v", tc.err), func(t *testing.T) {
			check := assert.New(t)
			bJSON, _ := json.Marshal(tc.err)
			check.Equal(tc.error, tc.err.Error())
			check.Equal(tc.json, string(bJSON))

			// unmarshal the marshaled text and marshal it again
			ev := Error{}
			if check.NoError(json.Unmarshal(bJSON, &ev)) {
				evJSON, _ := json.Marshal(ev)
				check.Equal(tc.json, string(evJSON))
			}
		})
	}
}

func TestUnmarshalUnknown(t *testing.T) {
	check := assert.New(t)
	var ty Type
	check.Error(ty.UnmarshalText([]byte("session")))
	var sev Severity
	check.Error(sev.UnmarshalText([]byte("fatal")))
	check.NoError(sev.UnmarshalText([]byte(" warning ")))
	check.Equal(SeverityWarning, sev)
	check.Equal("Type(9)", Type(9).String())
}
