package main

import (
	"bytes"
	"encoding/base64"
	"encoding/csv"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/core/storage/dbconfig"
	"github.com/urfave/cli"
)

var dumpCommand = cli.Command{
	Name:  "dump",
	Usage: "Print storage of resolvers kept in a BoltDB file as CSV",
	Description: `Every line is 'resolver,key,value' where resolver is the resolver address
   and binary key-value are base64-encoded. Keys are printed without the
   resolver address prefix.`,
	Flags: []cli.Flag{
		cli.StringFlag{Name: "db", Usage: "Path to the BoltDB file"},
		cli.StringSliceFlag{Name: "resolver", Usage: "Resolver address in hex, may be repeated"},
	},
	Action: dump,
}

func dump(c *cli.Context) error {
	path := c.String("db")
	if path == "" {
		return errors.New("missing database path")
	}

	list := c.StringSlice("resolver")
	if len(list) == 0 {
		return errors.New("missing resolver address")
	}

	st, err := storage.NewBoltDBStore(dbconfig.BoltDBOptions{FilePath: path})
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer st.Close()

	w := csv.NewWriter(c.App.Writer)

	for i := range list {
		resolver, err := decodeAddress(list[i])
		if err != nil {
			return fmt.Errorf("invalid resolver %q: %w", list[i], err)
		}

		var (
			name   = resolver.StringBE()
			prefix = resolver.BytesBE()
		)

		st.Seek(storage.SeekRange{Prefix: prefix}, func(k, v []byte) bool {
			err = w.Write([]string{
				name,
				base64.StdEncoding.EncodeToString(bytes.TrimPrefix(k, prefix)),
				base64.StdEncoding.EncodeToString(v),
			})
			return err == nil
		})
		if err != nil {
			return fmt.Errorf("write storage item: %w", err)
		}
	}

	w.Flush()

	return w.Error()
}
