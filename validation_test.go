package jsonschema_test

import (
	"testing"

	jsonschema "github.com/grbell-ms/json-everything"
	"github.com/grbell-ms/json-everything/value"
)

func TestMultipleOfExactDecimal(t *testing.T) {
	opts := jsonschema.DefaultOptions()
	divisor, _ := value.ParseNumber("0.1")
	sch := obj(map[string]value.Value{"multipleOf": divisor})

	ok, _ := value.ParseNumber("0.3")
	if res := evaluate(t, sch, ok, opts); !res.Valid {
		t.Fatalf("expected 0.3 to be an exact multiple of 0.1 using rational arithmetic")
	}
	bad, _ := value.ParseNumber("0.35")
	if res := evaluate(t, sch, bad, opts); res.Valid {
		t.Fatalf("expected 0.35 to fail multipleOf 0.1")
	}
}

func TestMinMaxExclusiveBounds(t *testing.T) {
	opts := jsonschema.DefaultOptions()
	sch := obj(map[string]value.Value{
		"minimum":          value.Int64(0),
		"maximum":          value.Int64(10),
		"exclusiveMinimum": value.Int64(0),
	})
	if res := evaluate(t, sch, value.Int64(0), opts); res.Valid {
		t.Fatalf("expected exclusiveMinimum:0 to reject 0 itself")
	}
	if res := evaluate(t, sch, value.Int64(1), opts); !res.Valid {
		t.Fatalf("expected 1 to satisfy minimum/maximum/exclusiveMinimum")
	}
	if res := evaluate(t, sch, value.Int64(10), opts); !res.Valid {
		t.Fatalf("expected 10 to satisfy inclusive maximum")
	}
	if res := evaluate(t, sch, value.Int64(11), opts); res.Valid {
		t.Fatalf("expected 11 to fail maximum")
	}
}

func TestMinMaxLengthCountsCodePointsNotBytes(t *testing.T) {
	opts := jsonschema.DefaultOptions()
	sch := obj(map[string]value.Value{"minLength": value.Int64(3), "maxLength": value.Int64(3)})

	// "héllo"-style multi-byte string: "日本語" is 3 runes but 9 bytes.
	if res := evaluate(t, sch, value.String("日本語"), opts); !res.Valid {
		t.Fatalf("expected a 3-rune, 9-byte string to satisfy minLength/maxLength of 3")
	}
	if res := evaluate(t, sch, value.String("ab"), opts); res.Valid {
		t.Fatalf("expected a 2-rune string to fail minLength:3")
	}
}

func TestUniqueItemsDistinguishesTypesAndOrder(t *testing.T) {
	opts := jsonschema.DefaultOptions()
	sch := obj(map[string]value.Value{"uniqueItems": value.Bool(true)})

	if res := evaluate(t, sch, value.Array(value.Int64(1), value.String("1")), opts); !res.Valid {
		t.Fatalf("expected the number 1 and the string \"1\" to count as distinct")
	}
	if res := evaluate(t, sch, value.Array(value.Int64(1), value.Int64(1)), opts); res.Valid {
		t.Fatalf("expected a literal duplicate to fail uniqueItems")
	}
}

func TestMaxMinPropertiesAndDependentRequired(t *testing.T) {
	opts := jsonschema.DefaultOptions()
	sch := obj(map[string]value.Value{
		"minProperties":     value.Int64(1),
		"maxProperties":     value.Int64(2),
		"dependentRequired": obj(map[string]value.Value{"a": value.Array(value.String("b"))}),
	})

	if res := evaluate(t, sch, obj(map[string]value.Value{}), opts); res.Valid {
		t.Fatalf("expected an empty object to fail minProperties:1")
	}
	if res := evaluate(t, sch, obj(map[string]value.Value{"a": value.Int64(1), "b": value.Int64(2), "c": value.Int64(3)}), opts); res.Valid {
		t.Fatalf("expected three properties to fail maxProperties:2")
	}
	if res := evaluate(t, sch, obj(map[string]value.Value{"a": value.Int64(1)}), opts); res.Valid {
		t.Fatalf("expected \"a\" present without \"b\" to fail dependentRequired")
	}
	if res := evaluate(t, sch, obj(map[string]value.Value{"a": value.Int64(1), "b": value.Int64(2)}), opts); !res.Valid {
		t.Fatalf("expected \"a\" and \"b\" both present to satisfy dependentRequired")
	}
}

func TestMinContainsMaxContainsBeyondZero(t *testing.T) {
	opts := jsonschema.DefaultOptions()
	sch := obj(map[string]value.Value{
		"contains":    obj(map[string]value.Value{"type": value.String("number")}),
		"minContains": value.Int64(2),
		"maxContains": value.Int64(3),
	})

	if res := evaluate(t, sch, value.Array(value.Int64(1), value.String("x")), opts); res.Valid {
		t.Fatalf("expected only one matching item to fail minContains:2")
	}
	if res := evaluate(t, sch, value.Array(value.Int64(1), value.Int64(2)), opts); !res.Valid {
		t.Fatalf("expected exactly two matching items to satisfy minContains:2/maxContains:3")
	}
	if res := evaluate(t, sch, value.Array(value.Int64(1), value.Int64(2), value.Int64(3), value.Int64(4)), opts); res.Valid {
		t.Fatalf("expected four matching items to fail maxContains:3")
	}
}

func TestPropertyNamesValidatesKeysNotValues(t *testing.T) {
	opts := jsonschema.DefaultOptions()
	sch := obj(map[string]value.Value{
		"propertyNames": obj(map[string]value.Value{"pattern": value.String("^[a-z]+$")}),
	})

	if res := evaluate(t, sch, obj(map[string]value.Value{"abc": value.Int64(1)}), opts); !res.Valid {
		t.Fatalf("expected a lowercase key to satisfy propertyNames")
	}
	if res := evaluate(t, sch, obj(map[string]value.Value{"ABC": value.Int64(1)}), opts); res.Valid {
		t.Fatalf("expected an uppercase key to fail propertyNames")
	}
}

func TestPrefixItemsThenItemsCoversRemainder(t *testing.T) {
	opts := jsonschema.DefaultOptions()
	opts.EvaluateAs = jsonschema.Draft2020
	sch := obj(map[string]value.Value{
		"prefixItems": value.Array(obj(map[string]value.Value{"type": value.String("string")})),
		"items":       obj(map[string]value.Value{"type": value.String("number")}),
	})

	if res := evaluate(t, sch, value.Array(value.String("x"), value.Int64(1), value.Int64(2)), opts); !res.Valid {
		t.Fatalf("expected prefixItems to cover index 0 and items to cover the rest")
	}
	if res := evaluate(t, sch, value.Array(value.String("x"), value.String("y")), opts); res.Valid {
		t.Fatalf("expected items to reject a string at an index beyond prefixItems' coverage")
	}
}

func TestDependentSchemasAppliesOnlyWhenTriggerPresent(t *testing.T) {
	opts := jsonschema.DefaultOptions()
	sch := obj(map[string]value.Value{
		"dependentSchemas": obj(map[string]value.Value{
			"credit_card": obj(map[string]value.Value{"required": value.Array(value.String("billing_address"))}),
		}),
	})

	if res := evaluate(t, sch, obj(map[string]value.Value{}), opts); !res.Valid {
		t.Fatalf("expected dependentSchemas to be inert when the trigger property is absent")
	}
	if res := evaluate(t, sch, obj(map[string]value.Value{"credit_card": value.Int64(1)}), opts); res.Valid {
		t.Fatalf("expected the triggered schema's required to fail without billing_address")
	}
	if res := evaluate(t, sch, obj(map[string]value.Value{"credit_card": value.Int64(1), "billing_address": value.String("x")}), opts); !res.Valid {
		t.Fatalf("expected the triggered schema to pass once billing_address is present")
	}
}

func TestLegacyDependenciesCombinesBothForms(t *testing.T) {
	opts := jsonschema.DefaultOptions()
	opts.EvaluateAs = jsonschema.Draft7
	sch := obj(map[string]value.Value{
		"dependencies": obj(map[string]value.Value{
			"a": value.Array(value.String("b")),
			"c": obj(map[string]value.Value{"properties": obj(map[string]value.Value{"d": obj(map[string]value.Value{"type": value.String("number")})})}),
		}),
	})

	if res := evaluate(t, sch, obj(map[string]value.Value{"a": value.Int64(1)}), opts); res.Valid {
		t.Fatalf("expected the array-form dependency to require \"b\" when \"a\" is present")
	}
	if res := evaluate(t, sch, obj(map[string]value.Value{"c": value.Int64(1), "d": value.String("not a number")}), opts); res.Valid {
		t.Fatalf("expected the schema-form dependency to apply its subschema to \"d\"")
	}
}
