package fsenv_test

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/hupe1980/fsenv"
)

func Example() {
	env := fsenv.Default()

	dir, err := env.GetTestDirectory()
	if err != nil {
		log.Fatal(err)
	}
	path := filepath.Join(dir, "example.log")

	wf, err := env.NewWritableFile(path)
	if err != nil {
		log.Fatal(err)
	}
	if err := wf.Append([]byte("hello")); err != nil {
		log.Fatal(err)
	}
	if err := wf.Append([]byte(" world")); err != nil {
		log.Fatal(err)
	}
	if err := wf.Sync(); err != nil {
		log.Fatal(err)
	}
	if err := wf.Close(); err != nil {
		log.Fatal(err)
	}

	sf, err := env.NewSequentialFile(path)
	if err != nil {
		log.Fatal(err)
	}
	defer sf.Close()

	buf := make([]byte, 11)
	n, err := sf.Read(buf)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(string(buf[:n]))
	// Output: hello world
}
