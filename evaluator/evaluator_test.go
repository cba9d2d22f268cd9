package evaluator

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"monkey/lexer"
	"monkey/object"
	"monkey/parser"
)

func TestEvalIntegerExpression(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"5", 5},
		{"10", 10},
		{"-5", -5},
		{"-10", -10},
		{"5 + 5 + 5 + 5 - 10", 10},
		{"2 * 2 * 2 * 2 * 2", 32},
		{"-50 + 100 + -50", 0},
		{"5 * 2 + 10", 20},
		{"5 + 2 * 10", 25},
		{"20 + 2 * -10", 0},
		{"50 / 2 * 2 + 10", 60},
		{"2 * (5 + 10)", 30},
		{"3 * 3 * 3 + 10", 37},
		{"3 * (3 * 3) + 10", 37},
		{"(5 + 10 * 2 + 15 / 3) * 2 + -10", 50},
		{"7 / 2", 3},
		{"-7 / 2", -3},
	}

	for _, tt := range tests {
		evaluated := testEval(t, tt.input)
		testIntegerObject(t, evaluated, tt.expected)
	}
}

func TestEvalBooleanExpression(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"true", true},
		{"false", false},
		{"1 < 2", true},
		{"1 > 2", false},
		{"1 < 1", false},
		{"1 > 1", false},
		{"1 == 1", true},
		{"1 != 1", false},
		{"1 == 2", false},
		{"1 != 2", true},
		{"true == true", true},
		{"false == false", true},
		{"true == false", false},
		{"true != false", true},
		{"false != true", true},
		{"(1 < 2) == true", true},
		{"(1 < 2) == false", false},
		{"(1 > 2) == true", false},
		{"(1 > 2) == false", true},
	}

	for _, tt := range tests {
		evaluated := testEval(t, tt.input)
		testBooleanObject(t, evaluated, tt.expected)
	}
}

func TestBangOperator(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"!true", false},
		{"!false", true},
		{"!5", false},
		{"!!true", true},
		{"!!false", false},
		{"!!5", true},
		{`!""`, false},
		{"![]", false},
		{"!if (false) { 1 }", true},
	}

	for _, tt := range tests {
		evaluated := testEval(t, tt.input)
		testBooleanObject(t, evaluated, tt.expected)
	}
}

func TestIfElseExpressions(t *testing.T) {
	tests := []struct {
		input    string
		expected interface{}
	}{
		{"if (true) { 10 }", 10},
		{"if (false) { 10 }", nil},
		{"if (1) { 10 }", 10},
		{"if (1 < 2) { 10 }", 10},
		{"if (1 > 2) { 10 }", nil},
		{"if (1 > 2) { 10 } else { 20 }", 20},
		{"if (1 < 2) { 10 } else { 20 }", 10},
		{"if (true) { }", nil},
		{"if (false) { 10 } else { }", nil},
	}

	for _, tt := range tests {
		evaluated := testEval(t, tt.input)
		integer, ok := tt.expected.(int)
		if ok {
			testIntegerObject(t, evaluated, int64(integer))
		} else {
			testNullObject(t, evaluated)
		}
	}
}

func TestReturnStatements(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"return 10;", 10},
		{"return 10; 9;", 10},
		{"return 2 * 5; 9;", 10},
		{"9; return 2 * 5; 9;", 10},
		{"if (10 > 1) { return 10; }", 10},
		{
			`
if (10 > 1) {
  if (10 > 1) {
    return 10;
  }

  return 1;
}
`,
			10,
		},
		{
			`
let f = fn(x) {
  return x;
  x + 10;
};
f(10);`,
			10,
		},
		{
			`
let f = fn(x) {
   let result = x + 10;
   return result;
   return 10;
};
f(10);`,
			20,
		},
		// 式の途中の return は演算に使われず、そのまま外へ伝わる
		{"1 + if (true) { return 2; }", 2},
		{"fn() { [if (true) { return 2; }][0] + 1 }()", 2},
		{"let a = [if (true) { return 2; }]; a[0] == 2", 2},
		{"let f = fn() { let a = [if (true) { return 2; }]; a[0] + 1 }; f()", 2},
		{"-if (true) { return 3; }", 3},
		{"if (if (true) { return 4; }) { 10 } else { 20 }", 4},
		{"len(if (true) { return 5; })", 5},
		{"{if (true) { return 6; }: 1}", 6},
		{"{1: if (true) { return 7; }}", 7},
		{"[1, 2][if (true) { return 8; }]", 8},
		{"let f = fn() { let x = if (true) { return 9; }; 0 }; f() + 1", 10},
	}

	for _, tt := range tests {
		evaluated := testEval(t, tt.input)
		testIntegerObject(t, evaluated, tt.expected)
	}
}

// 関数の中の return はその関数の呼び出しだけを終わらせる。
func TestReturnUnwrapsOnlyOneCall(t *testing.T) {
	input := `
let inner = fn() { return 1; };
let outer = fn() { inner(); 2 };
outer();`

	testIntegerObject(t, testEval(t, input), 2)
}

func TestErrorHandling(t *testing.T) {
	tests := []struct {
		input           string
		expectedKind    ErrorKind
		expectedMessage string
	}{
		{"5 + true;", TypeMismatch, "type mismatch: INTEGER + BOOLEAN"},
		{"5 + true; 5;", TypeMismatch, "type mismatch: INTEGER + BOOLEAN"},
		{"-true", UnknownOperator, "unknown operator: -BOOLEAN"},
		{"true + false;", UnknownOperator, "unknown operator: BOOLEAN + BOOLEAN"},
		{"5; true + false; 5", UnknownOperator, "unknown operator: BOOLEAN + BOOLEAN"},
		{"if (10 > 1) { true + false; }", UnknownOperator, "unknown operator: BOOLEAN + BOOLEAN"},
		{
			`
if (10 > 1) {
  if (10 > 1) {
    return true + false;
  }

  return 1;
}
`,
			UnknownOperator,
			"unknown operator: BOOLEAN + BOOLEAN",
		},
		{"foobar", UnknownIdentifier, "identifier not found: foobar"},
		{`"Hello" - "World"`, UnknownOperator, "unknown operator: STRING - STRING"},
		{`"a" == "a"`, UnknownOperator, "unknown operator: STRING == STRING"},
		{`1 == "1"`, TypeMismatch, "type mismatch: INTEGER == STRING"},
		{"[1] + [2]", UnknownOperator, "unknown operator: ARRAY + ARRAY"},
		{`{"name": "Monkey"}[fn(x) { x }];`, UnsupportedIndexOperator, "index operator not supported: HASH[FUNCTION]"},
		{`[1, 2]["0"]`, UnsupportedIndexOperator, "index operator not supported: ARRAY[STRING]"},
		{"5[0]", UnsupportedIndexOperator, "index operator not supported: INTEGER[INTEGER]"},
		{`{[1]: 2}`, UnusableHashKey, "unusable as hash key: ARRAY"},
		{"5()", NotCallable, "not a function: INTEGER"},
		{"true(1)", NotCallable, "not a function: BOOLEAN"},
		{"fn(x) { x }()", WrongArgumentCount, "wrong number of arguments. got=0, want=1"},
		{"fn(x) { x }(1, 2)", WrongArgumentCount, "wrong number of arguments. got=2, want=1"},
		{"10 / 0", DivisionByZero, "division by zero"},
		{"let x = 1; let y = x - 1; 5 / y", DivisionByZero, "division by zero"},
	}

	for _, tt := range tests {
		testEvalError(t, tt.input, tt.expectedKind, tt.expectedMessage)
	}
}

// エラーが起きたら後続の引数や文は評価されない。
func TestErrorShortCircuits(t *testing.T) {
	var out bytes.Buffer
	env := object.NewEnvironment()
	env.SetOutput(&out)

	testEvalErrorIn(t, env, `puts(missing, puts("never"))`, UnknownIdentifier, "identifier not found: missing")
	testEvalErrorIn(t, env, `let a = -true; puts("never")`, UnknownOperator, "unknown operator: -BOOLEAN")

	if out.Len() != 0 {
		t.Errorf("evaluation continued after an error. output=%q", out.String())
	}
}

func TestLetStatements(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"let a = 5; a;", 5},
		{"let a = 5 * 5; a;", 25},
		{"let a = 5; let b = a; b;", 5},
		{"let a = 5; let b = a; let c = a + b + 5; c;", 15},
		{"let a = 5;", 5},
		{"let a = 1; let a = a + 1; a", 2},
	}

	for _, tt := range tests {
		testIntegerObject(t, testEval(t, tt.input), tt.expected)
	}
}

func TestFunctionObject(t *testing.T) {
	input := "fn(x) { x + 2; };"

	evaluated := testEval(t, input)
	fn, ok := evaluated.(*object.Function)
	if !ok {
		t.Fatalf("object is not Function. got=%T (%+v)", evaluated, evaluated)
	}

	if len(fn.Parameters) != 1 {
		t.Fatalf("function has wrong parameters. Parameters=%+v",
			fn.Parameters)
	}

	if fn.Parameters[0].String() != "x" {
		t.Fatalf("parameter is not 'x'. got=%q", fn.Parameters[0])
	}

	expectedBody := "{ (x + 2) }"

	if fn.Body.String() != expectedBody {
		t.Fatalf("body is not %q. got=%q", expectedBody, fn.Body.String())
	}
}

func TestFunctionApplication(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"let identity = fn(x) { x; }; identity(5);", 5},
		{"let identity = fn(x) { return x; }; identity(5);", 5},
		{"let double = fn(x) { x * 2; }; double(5);", 10},
		{"let add = fn(x, y) { x + y; }; add(5, 5);", 10},
		{"let add = fn(x, y) { x + y; }; add(5 + 5, add(5, 5));", 20},
		{"fn(x) { x; }(5)", 5},
		{"let identity = fn(x) { return 10; x; }; identity(5);", 10},
	}

	for _, tt := range tests {
		testIntegerObject(t, testEval(t, tt.input), tt.expected)
	}
}

func TestEmptyFunctionBody(t *testing.T) {
	testNullObject(t, testEval(t, "fn() { }()"))
}

func TestEnclosingEnvironments(t *testing.T) {
	input := `
let first = 10;
let second = 10;
let third = 10;

let ourFunction = fn(first) {
  let second = 20;

  first + second + third;
};

ourFunction(20) + first + second;`

	testIntegerObject(t, testEval(t, input), 70)
}

func TestClosures(t *testing.T) {
	input := `
let newAdder = fn(x) {
  fn(y) { x + y };
};

let addTwo = newAdder(2);
addTwo(3);`

	testIntegerObject(t, testEval(t, input), 5)
}

// 関数は呼び出し元ではなく定義された場所の環境を見る。
func TestClosuresCaptureDefinitionEnvironment(t *testing.T) {
	input := `
let x = 1;
let getX = fn() { x };
let shadow = fn(x) { getX() };
shadow(100);`

	testIntegerObject(t, testEval(t, input), 1)
}

func TestRecursiveFunction(t *testing.T) {
	input := `
let fib = fn(n) {
  if (n < 2) { return n; }
  fib(n - 1) + fib(n - 2)
};
fib(15);`

	testIntegerObject(t, testEval(t, input), 610)
}

func TestStringLiteral(t *testing.T) {
	input := `"Hello World!"`

	evaluated := testEval(t, input)
	str, ok := evaluated.(*object.String)
	if !ok {
		t.Fatalf("object is not String. got=%T (%+v)", evaluated, evaluated)
	}

	if str.Value != "Hello World!" {
		t.Errorf("String has wrong value. got=%q", str.Value)
	}
}

func TestStringConcatenation(t *testing.T) {
	input := `"Hello" + " " + "World!"`

	evaluated := testEval(t, input)
	str, ok := evaluated.(*object.String)
	if !ok {
		t.Fatalf("object is not String. got=%T (%+v)", evaluated, evaluated)
	}

	if str.Value != "Hello World!" {
		t.Errorf("String has wrong value. got=%q", str.Value)
	}
}

func TestBuiltinFunctions(t *testing.T) {
	tests := []struct {
		input    string
		expected interface{}
	}{
		{`len("")`, 0},
		{`len("four")`, 4},
		{`len("hello world")`, 11},
		{`len("日本語")`, 3},
		{`len([1, 2])`, 2},
		{`let myArray = [1, 2, 3]; len(myArray)`, 3},
		{`first([1, 2, 3])`, 1},
		{`first([])`, nil},
		{`last([1, 2, 3])`, 3},
		{`last([])`, nil},
		{`rest([1, 2, 3])`, []int{2, 3}},
		{`rest([1])`, []int{}},
		{`rest([])`, nil},
		{`push([], 1)`, []int{1}},
		{`let a = [1]; let b = push(a, 2); a`, []int{1}},
		{`let a = [1, 2, 3]; rest(a); a`, []int{1, 2, 3}},
		{`puts("hello")`, nil},
		{`let len = fn(x) { 42 }; len([1])`, 42},
	}

	for _, tt := range tests {
		evaluated := testEval(t, tt.input)

		switch expected := tt.expected.(type) {
		case int:
			testIntegerObject(t, evaluated, int64(expected))
		case nil:
			testNullObject(t, evaluated)
		case []int:
			array, ok := evaluated.(*object.Array)
			if !ok {
				t.Errorf("obj not Array. got=%T (%+v)", evaluated, evaluated)
				continue
			}

			if len(array.Elements) != len(expected) {
				t.Errorf("wrong num of elements. want=%d, got=%d",
					len(expected), len(array.Elements))
				continue
			}

			for i, expectedElem := range expected {
				testIntegerObject(t, array.Elements[i], int64(expectedElem))
			}
		}
	}
}

func TestBuiltinErrors(t *testing.T) {
	tests := []struct {
		input           string
		expectedKind    ErrorKind
		expectedMessage string
	}{
		{`len(1)`, UnsupportedArgument, "argument to `len` not supported, got INTEGER"},
		{`len("one", "two")`, WrongArgumentCount, "wrong number of arguments to `len`. got=2, want=1"},
		{`len([], [1])`, WrongArgumentCount, "wrong number of arguments to `len`. got=2, want=1"},
		{`first(1)`, UnsupportedArgument, "argument to `first` not supported, got INTEGER"},
		{`first(1, 2)`, WrongArgumentCount, "wrong number of arguments to `first`. got=2, want=1"},
		{`last(1)`, UnsupportedArgument, "argument to `last` not supported, got INTEGER"},
		{`last()`, WrongArgumentCount, "wrong number of arguments to `last`. got=0, want=1"},
		{`rest(1)`, UnsupportedArgument, "argument to `rest` not supported, got INTEGER"},
		{`rest(1, 2)`, WrongArgumentCount, "wrong number of arguments to `rest`. got=2, want=1"},
		{`push(1, 2)`, UnsupportedArgument, "argument to `push` not supported, got INTEGER"},
		{`push(1)`, WrongArgumentCount, "wrong number of arguments to `push`. got=1, want=2"},
	}

	for _, tt := range tests {
		testEvalError(t, tt.input, tt.expectedKind, tt.expectedMessage)
	}
}

func TestPutsWritesInspectLines(t *testing.T) {
	var out bytes.Buffer
	env := object.NewEnvironment()
	env.SetOutput(&out)

	testNullObject(t, testEvalIn(t, env, `puts("a", 1, [true, "b"], {"k": 2})`))

	want := "a\n1\n[true, b]\n{k: 2}\n"
	if out.String() != want {
		t.Errorf("puts output wrong. want=%q, got=%q", want, out.String())
	}
}

// 関数の中の puts は定義した環境ではなく、呼び出した環境の出力先に書く。
func TestPutsUsesCallerOutput(t *testing.T) {
	var first, second bytes.Buffer
	env1 := object.NewEnvironment()
	env1.SetOutput(&first)
	env2 := object.NewEnvironment()
	env2.SetOutput(&second)

	testEvalIn(t, env1, `let say = fn(x) { puts(x) }; say("one")`)
	testEvalIn(t, env2, `puts("two")`)
	testEvalIn(t, env1, `say("three")`)

	if first.String() != "one\nthree\n" {
		t.Errorf("first output wrong. got=%q", first.String())
	}
	if second.String() != "two\n" {
		t.Errorf("second output wrong. got=%q", second.String())
	}
}

func TestEvalUnknownNode(t *testing.T) {
	obj, err := Eval(nil, object.NewEnvironment())
	if obj != nil {
		t.Errorf("result returned for nil node: %+v", obj)
	}

	var evalErr *Error
	if !errors.As(err, &evalErr) {
		t.Fatalf("error is not *Error. got=%T (%v)", err, err)
	}
	if evalErr.Kind != UnknownNode {
		t.Errorf("wrong error kind. expected=%s, got=%s", UnknownNode, evalErr.Kind)
	}
	if evalErr.Error() != "cannot evaluate node: <nil>" {
		t.Errorf("wrong error message. got=%q", evalErr.Error())
	}
}

func TestArrayLiterals(t *testing.T) {
	input := "[1, 2 * 2, 3 + 3]"

	evaluated := testEval(t, input)
	result, ok := evaluated.(*object.Array)
	if !ok {
		t.Fatalf("object is not Array. got=%T (%+v)", evaluated, evaluated)
	}

	if len(result.Elements) != 3 {
		t.Fatalf("array has wrong num of elements. got=%d",
			len(result.Elements))
	}

	testIntegerObject(t, result.Elements[0], 1)
	testIntegerObject(t, result.Elements[1], 4)
	testIntegerObject(t, result.Elements[2], 6)
}

func TestArrayIndexExpressions(t *testing.T) {
	tests := []struct {
		input    string
		expected interface{}
	}{
		{"[1, 2, 3][0]", 1},
		{"[1, 2, 3][1]", 2},
		{"[1, 2, 3][2]", 3},
		{"let i = 0; [1][i];", 1},
		{"[1, 2, 3][1 + 1];", 3},
		{"let myArray = [1, 2, 3]; myArray[2];", 3},
		{"let myArray = [1, 2, 3]; myArray[0] + myArray[1] + myArray[2];", 6},
		{"let myArray = [1, 2, 3]; let i = myArray[0]; myArray[i]", 2},
		{"[1, 2, 3][3]", nil},
		{"[1, 2, 3][-1]", nil},
		{"[][0]", nil},
	}

	for _, tt := range tests {
		evaluated := testEval(t, tt.input)
		integer, ok := tt.expected.(int)
		if ok {
			testIntegerObject(t, evaluated, int64(integer))
		} else {
			testNullObject(t, evaluated)
		}
	}
}

func TestHashLiterals(t *testing.T) {
	input := `let two = "two";
	{
		"one": 10 - 9,
		two: 1 + 1,
		"thr" + "ee": 6 / 2,
		4: 4,
		true: 5,
		false: 6
	}`

	evaluated := testEval(t, input)
	result, ok := evaluated.(*object.Hash)
	if !ok {
		t.Fatalf("Eval didn't return Hash. got=%T (%+v)", evaluated, evaluated)
	}

	expected := map[object.HashKey]int64{
		(&object.String{Value: "one"}).HashKey():   1,
		(&object.String{Value: "two"}).HashKey():   2,
		(&object.String{Value: "three"}).HashKey(): 3,
		(&object.Integer{Value: 4}).HashKey():      4,
		TRUE.HashKey():                             5,
		FALSE.HashKey():                            6,
	}

	if result.Len() != len(expected) {
		t.Fatalf("Hash has wrong num of pairs. got=%d", result.Len())
	}

	for expectedKey, expectedValue := range expected {
		value, ok := result.Get(expectedKey)
		if !ok {
			t.Errorf("no pair for given key in Pairs")
			continue
		}

		testIntegerObject(t, value, expectedValue)
	}

	want := "{one: 1, two: 2, three: 3, 4: 4, true: 5, false: 6}"
	if result.Inspect() != want {
		t.Errorf("hash.Inspect() wrong. want=%q, got=%q", want, result.Inspect())
	}
}

func TestHashLiteralLastWriteWins(t *testing.T) {
	evaluated := testEval(t, `{"a": 1, "b": 2, "a": 3}`)

	want := "{a: 3, b: 2}"
	if evaluated.Inspect() != want {
		t.Errorf("hash.Inspect() wrong. want=%q, got=%q", want, evaluated.Inspect())
	}
}

func TestHashIndexExpressions(t *testing.T) {
	tests := []struct {
		input    string
		expected interface{}
	}{
		{`{"foo": 5}["foo"]`, 5},
		{`{"foo": 5}["bar"]`, nil},
		{`let key = "foo"; {"foo": 5}[key]`, 5},
		{`{}["foo"]`, nil},
		{`{5: 5}[5]`, 5},
		{`{true: 5}[true]`, 5},
		{`{false: 5}[false]`, 5},
		{`{1: 5}[true]`, nil},
		{`{"1": 5}[1]`, nil},
		{`{"one": 1}["one"]`, 1},
		{`let k = "one"; {"one": 1}[k]`, 1},
		{`let k = "o"; {"one": 1}[k + "ne"]`, 1},
	}

	for _, tt := range tests {
		evaluated := testEval(t, tt.input)
		integer, ok := tt.expected.(int)
		if ok {
			testIntegerObject(t, evaluated, int64(integer))
		} else {
			testNullObject(t, evaluated)
		}
	}
}

// newTestEnvironment は puts の出力を捨てるトップレベル環境を返す。
func newTestEnvironment() *object.Environment {
	env := object.NewEnvironment()
	env.SetOutput(io.Discard)
	return env
}

func testEval(t *testing.T, input string) object.Object {
	t.Helper()
	return testEvalIn(t, newTestEnvironment(), input)
}

func testEvalIn(t *testing.T, env *object.Environment, input string) object.Object {
	t.Helper()

	l := lexer.New(input)
	p := parser.New(l)
	program, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("parser error for %q: %v", input, err)
	}

	obj, err := Eval(program, env)
	if err != nil {
		t.Fatalf("eval error for %q: %v", input, err)
	}
	return obj
}

func testEvalError(t *testing.T, input string, kind ErrorKind, message string) {
	t.Helper()
	testEvalErrorIn(t, newTestEnvironment(), input, kind, message)
}

func testEvalErrorIn(t *testing.T, env *object.Environment, input string, kind ErrorKind, message string) {
	t.Helper()

	program, err := parser.New(lexer.New(input)).ParseProgram()
	if err != nil {
		t.Fatalf("parser error for %q: %v", input, err)
	}

	obj, err := Eval(program, env)
	if err == nil {
		t.Errorf("no error for %q. got=%T (%+v)", input, obj, obj)
		return
	}
	if obj != nil {
		t.Errorf("partial result returned with error for %q: %+v", input, obj)
	}

	var evalErr *Error
	if !errors.As(err, &evalErr) {
		t.Errorf("error is not *Error. got=%T (%v)", err, err)
		return
	}

	if evalErr.Kind != kind {
		t.Errorf("wrong error kind for %q. expected=%s, got=%s",
			input, kind, evalErr.Kind)
	}
	if evalErr.Error() != message {
		t.Errorf("wrong error message for %q. expected=%q, got=%q",
			input, message, evalErr.Error())
	}
}

func testIntegerObject(t *testing.T, obj object.Object, expected int64) bool {
	t.Helper()

	result, ok := obj.(*object.Integer)
	if !ok {
		t.Errorf("object is not Integer. got=%T (%+v)", obj, obj)
		return false
	}
	if result.Value != expected {
		t.Errorf("object has wrong value. got=%d, want=%d",
			result.Value, expected)
		return false
	}

	return true
}

func testBooleanObject(t *testing.T, obj object.Object, expected bool) bool {
	t.Helper()

	result, ok := obj.(*object.Boolean)
	if !ok {
		t.Errorf("object is not Boolean. got=%T (%+v)", obj, obj)
		return false
	}
	if result.Value != expected {
		t.Errorf("object has wrong value. got=%t, want=%t",
			result.Value, expected)
		return false
	}
	return true
}

func testNullObject(t *testing.T, obj object.Object) bool {
	t.Helper()

	if obj != NULL {
		t.Errorf("object is not NULL. got=%T (%+v)", obj, obj)
		return false
	}
	return true
}
