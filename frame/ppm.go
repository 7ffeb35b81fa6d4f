package frame

import (
	"bufio"
	"io"
	"strconv"
)

// Write buffer as a plain text (P3) PPM image: a three line header followed
// by one space separated RGB triple per pixel, row-major, top row first.
func WritePPM(w io.Writer, b *Buffer) error {
	bw := bufio.NewWriter(w)

	bw.WriteString("P3\n")
	bw.WriteString(strconv.FormatUint(uint64(b.W), 10))
	bw.WriteByte(' ')
	bw.WriteString(strconv.FormatUint(uint64(b.H), 10))
	bw.WriteString("\n255\n")

	var num []byte
	for _, px := range b.Pix {
		for _, ch := range px {
			num = strconv.AppendUint(num[:0], uint64(ToByte(ch)), 10)
			bw.Write(num)
			bw.WriteByte(' ')
		}
	}

	return bw.Flush()
}
