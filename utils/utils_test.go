package utils_test

import (
	"fmt"
	"path"
	"strings"

	"typecaster/utils"
)

func Example() {
	fmt.Println(utils.IsInRange(-128, 12, 127), utils.IsInRange(0, 256, 255))
	fmt.Println(utils.IsIntegral(3), utils.IsIntegral(3.5))
	fmt.Println(utils.Second(path.Split("typecaster/serializer")))

	pkg, name := utils.Unpack2(strings.SplitN("serializer.JSON", ".", 2))
	fmt.Println(pkg, name)

	pkg, name = utils.Unpack2(strings.SplitN("main", ".", 2))
	fmt.Printf("%q %q\n", pkg, name)

	// Output:
	// true false
	// true false
	// serializer
	// serializer JSON
	// "main" ""
}
