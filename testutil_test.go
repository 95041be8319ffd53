package freshtabs

import (
	"database/sql"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"
	"unicode/utf16"

	_ "modernc.org/sqlite"
)

// pickleBuilder assembles payloads the way the browser writes them: a uint32
// payload size header, then fields that each start on a 4-byte boundary.
type pickleBuilder struct {
	payload []byte
}

func (b *pickleBuilder) align() {
	for len(b.payload)%pickleAlignment != 0 {
		b.payload = append(b.payload, 0)
	}
}

func (b *pickleBuilder) writeBytes(p []byte) {
	b.align()
	b.payload = append(b.payload, p...)
}

func (b *pickleBuilder) writeInt(v int32) {
	b.align()
	b.payload = binary.LittleEndian.AppendUint32(b.payload, uint32(v))
}

func (b *pickleBuilder) writeBool(v bool) {
	var x int32
	if v {
		x = 1
	}
	b.writeInt(x)
}

func (b *pickleBuilder) writeString(s string) {
	b.writeInt(int32(len(s)))
	b.writeBytes([]byte(s))
}

func (b *pickleBuilder) writeString16(s string) {
	units := utf16.Encode([]rune(s))
	b.writeInt(int32(len(units)))
	b.align()
	for _, u := range units {
		b.payload = binary.LittleEndian.AppendUint16(b.payload, u)
	}
}

func (b *pickleBuilder) writeData(p []byte) {
	b.writeInt(int32(len(p)))
	b.writeBytes(p)
}

func (b *pickleBuilder) bytes() []byte {
	out := make([]byte, 0, pickleAlignment+len(b.payload))
	out = binary.LittleEndian.AppendUint32(out, uint32(len(b.payload)))
	return append(out, b.payload...)
}

func navigationPayload(tabID, index int32, url, title string) []byte {
	var b pickleBuilder
	b.writeInt(tabID)
	b.writeInt(index)
	b.writeString(url)
	b.writeString16(title)
	b.writeData(nil) // serialized page state
	b.writeInt(0)    // transition type
	return b.bytes()
}

func navigationPayloadWithTail(tabID, index int32, url, title string) []byte {
	var b pickleBuilder
	b.writeInt(tabID)
	b.writeInt(index)
	b.writeString(url)
	b.writeString16(title)
	b.writeData(nil)
	b.writeInt(0)
	b.writeInt(1) // type mask (has post data)
	b.writeString("https://referrer.example/")
	b.writeInt(0) // referrer policy
	b.writeString("https://original.example/")
	b.writeBool(true)
	return b.bytes()
}

func sessionFileBytes(version uint32, commands ...sessionCommand) []byte {
	out := make([]byte, 0, snssHeaderSize)
	out = binary.LittleEndian.AppendUint32(out, snssSignature)
	out = binary.LittleEndian.AppendUint32(out, version)
	for _, c := range commands {
		out = binary.LittleEndian.AppendUint16(out, uint16(1+len(c.contents)))
		out = append(out, c.id)
		out = append(out, c.contents...)
	}
	return out
}

func tabsFileBytes(records ...Record) []byte {
	commands := make([]sessionCommand, 0, len(records))
	for _, r := range records {
		commands = append(commands, sessionCommand{
			id:       tabsCommandUpdateNavigation,
			contents: navigationPayload(int32(r.TabID), int32(r.Index), r.URL, r.Title),
		})
	}
	return sessionFileBytes(snssVersionPlain, commands...)
}

func writeTestFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func touchFuture(t *testing.T, path string) {
	t.Helper()
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}
}

func openTestSQLite(t *testing.T, path string) *sql.DB {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	db, err := sql.Open("sqlite", "file:"+filepath.ToSlash(path)+"?mode=rwc")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func writeHistoryDB(t *testing.T, path string, titles map[string]string) {
	t.Helper()
	db := openTestSQLite(t, path)
	if _, err := db.Exec(`CREATE TABLE urls(id INTEGER PRIMARY KEY, url TEXT, title TEXT, visit_count INTEGER DEFAULT 0, typed_count INTEGER DEFAULT 0, last_visit_time INTEGER DEFAULT 0, hidden INTEGER DEFAULT 0)`); err != nil {
		t.Fatal(err)
	}
	visit := int64(13300000000000000)
	for url, title := range titles {
		visit++
		if _, err := db.Exec(`INSERT INTO urls(url, title, last_visit_time) VALUES(?,?,?)`, url, title, visit); err != nil {
			t.Fatal(err)
		}
	}
}
