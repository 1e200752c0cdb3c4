// Package feedrow описывает нетипизированную строку фида и единственный путь
// доступа к ее полям: резолвер псевдонимов и приведение значений к скалярам.
package feedrow

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// Kind - тег варианта значения
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindList
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindObject:
		return "object"
	}
	return "null"
}

// Value - размеченное объединение {скаляр, список, вложенный объект}.
// Нулевое значение - null.
type Value struct {
	kind Kind
	str  string
	num  float64
	flag bool
	list []Value
	obj  Row
}

// Row - одна входная строка фида
type Row map[string]Value

func Null() Value               { return Value{} }
func Str(s string) Value        { return Value{kind: KindString, str: s} }
func Num(n float64) Value       { return Value{kind: KindNumber, num: n} }
func Bool(b bool) Value         { return Value{kind: KindBool, flag: b} }
func List(items ...Value) Value { return Value{kind: KindList, list: items} }
func Object(r Row) Value        { return Value{kind: KindObject, obj: r} }

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// Get возвращает член вложенного объекта. Для не-объектов - (null, false).
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	member, ok := v.obj[key]
	return member, ok
}

// Has сообщает, есть ли у объекта член key
func (v Value) Has(key string) bool {
	_, ok := v.Get(key)
	return ok
}

// Items нормализует повторяющийся элемент: список отдается как есть,
// одиночное значение оборачивается в список из одного элемента, null - пустой список.
func Items(v Value) []Value {
	switch v.kind {
	case KindNull:
		return nil
	case KindList:
		return v.list
	}
	return []Value{v}
}

// Truthy повторяет семантику "есть значение" для цепочек запасных полей:
// пустая строка, ноль, false и null считаются отсутствием значения.
func Truthy(v Value) bool {
	switch v.kind {
	case KindString:
		return v.str != ""
	case KindNumber:
		return v.num != 0 && !math.IsNaN(v.num)
	case KindBool:
		return v.flag
	case KindList, KindObject:
		return true
	}
	return false
}

// FirstTruthy возвращает первое "непустое" значение из перечисленных ключей строки
func (r Row) FirstTruthy(keys ...string) Value {
	for _, k := range keys {
		if v, ok := r[k]; ok && Truthy(v) {
			return v
		}
	}
	return Value{}
}

// FromAny строит Value из результата json.Unmarshal или из Go-литералов в тестах
func FromAny(x any) Value {
	switch t := x.(type) {
	case nil:
		return Value{}
	case Value:
		return t
	case Row:
		return Object(t)
	case string:
		return Str(t)
	case bool:
		return Bool(t)
	case float64:
		return Num(t)
	case float32:
		return Num(float64(t))
	case int:
		return Num(float64(t))
	case int64:
		return Num(float64(t))
	case int32:
		return Num(float64(t))
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return Num(f)
		}
		return Str(t.String())
	case []string:
		items := make([]Value, len(t))
		for i, s := range t {
			items[i] = Str(s)
		}
		return List(items...)
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = FromAny(item)
		}
		return List(items...)
	case map[string]any:
		return Object(RowFromMap(t))
	}
	return Str(fmt.Sprint(x))
}

// RowFromMap конвертирует декодированный JSON-объект в Row
func RowFromMap(m map[string]any) Row {
	row := make(Row, len(m))
	for k, v := range m {
		row[k] = FromAny(v)
	}
	return row
}

// ToAny - обратное преобразование, используется для сериализации
func (v Value) ToAny() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.flag
	case KindList:
		items := make([]any, len(v.list))
		for i, item := range v.list {
			items[i] = item.ToAny()
		}
		return items
	case KindObject:
		return v.obj.ToMap()
	}
	return nil
}

func (r Row) ToMap() map[string]any {
	m := make(map[string]any, len(r))
	for k, v := range r {
		m[k] = v.ToAny()
	}
	return m
}

// Keys возвращает ключи строки в отсортированном порядке
func (r Row) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.ToAny())
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = FromAny(raw)
	return nil
}
