package tnetstring_test

import (
	"errors"
	"fmt"

	"github.com/zoobzio/tnetstring"
	"github.com/zoobzio/tnetstring/json"
)

type Point struct {
	X int `tnet:"x"`
	Y int `tnet:"y"`
}

func ExampleEncode() {
	d := tnetstring.NewDictionary()
	d.Set("hello", tnetstring.List(tnetstring.Int(12345), tnetstring.String("this")))

	data, err := tnetstring.Encode(tnetstring.Dict(d))
	if err != nil {
		panic(err)
	}
	fmt.Println(string(data))
	// Output: 27:5:hello,15:5:12345#4:this,]}
}

func ExampleDecodeOne() {
	v, err := tnetstring.DecodeOne([]byte("24:5:12345#5:67890#5:xxxxx,]"))
	if err != nil {
		panic(err)
	}
	fmt.Println(v.Kind(), v.Interface())
	// Output: list [12345 67890 xxxxx]
}

func ExampleDecode() {
	values, err := tnetstring.Decode([]byte("1:1#0:~4:true!"))
	if err != nil {
		panic(err)
	}
	for _, v := range values {
		fmt.Println(v.Kind())
	}
	// Output:
	// integer
	// null
	// bool
}

func ExampleDecodeError() {
	_, err := tnetstring.Decode([]byte("20:99999999999999999999#"))

	var decErr *tnetstring.DecodeError
	if errors.As(err, &decErr) {
		fmt.Println(errors.Is(err, tnetstring.ErrIntegerOverflow), decErr.Offset)
	}
	// Output: true 0
}

func ExampleMarshal() {
	data, err := tnetstring.Marshal(Point{X: 1, Y: 2})
	if err != nil {
		panic(err)
	}
	fmt.Println(string(data))
	// Output: 16:1:x,1:1#1:y,1:2#}
}

func ExampleUnmarshal() {
	var p Point
	if err := tnetstring.Unmarshal([]byte("16:1:x,1:3#1:y,1:4#}"), &p); err != nil {
		panic(err)
	}
	fmt.Println(p.X, p.Y)
	// Output: 3 4
}

func ExampleImport() {
	data, err := tnetstring.Import(json.New(), []byte(`{"x":1}`))
	if err != nil {
		panic(err)
	}
	fmt.Println(string(data))
	// Output: 8:1:x,1:1#}
}

func ExampleExport() {
	out, err := tnetstring.Export(json.New(), []byte("24:5:12345#5:67890#5:xxxxx,]"))
	if err != nil {
		panic(err)
	}
	fmt.Println(string(out))
	// Output: [12345,67890,"xxxxx"]
}
