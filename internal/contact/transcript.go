package contact

import (
	"time"

	"github.com/xurxxo/termfolio/internal/sequence"
)

const formRevealDelay = 500 * time.Millisecond

const (
	genericErrorText = "✗ Error sending message. Please try again."
	errorPrefix      = "✗ Error: "
	unknownReason    = "Unknown error"
)

var transcript = []sequence.Line{
	sequence.Command(500*time.Millisecond, "$ pwd"),
	sequence.Output(300*time.Millisecond, "/home/user/contact"),
	sequence.Command(500*time.Millisecond, "$ ls -la"),
	sequence.Output(300*time.Millisecond, "total 16"),
	sequence.Output(100*time.Millisecond, "drwxr-xr-x 2 user user 4096 Nov  5 14:30 ."),
	sequence.Output(100*time.Millisecond, "drwxr-xr-x 8 user user 4096 Nov  5 14:30 .."),
	sequence.Output(100*time.Millisecond, "-rw-r--r-- 1 user user  220 Nov  5 14:30 email.sh"),
	sequence.Output(100*time.Millisecond, "-rw-r--r-- 1 user user  807 Nov  5 14:30 info.txt"),
	sequence.Command(500*time.Millisecond, "$ cat info.txt"),
	sequence.Info(300*time.Millisecond, "╔════════════════════════════════════════════════╗"),
	sequence.Info(50*time.Millisecond, "║             CONTACT INFORMATION                ║"),
	sequence.Info(50*time.Millisecond, "╠════════════════════════════════════════════════╣"),
	sequence.Info(50*time.Millisecond, "║  Email:     xurxo@mail.com                     ║"),
	sequence.Info(50*time.Millisecond, "║  GitHub:    github.com/Xurxxo                  ║"),
	sequence.Info(50*time.Millisecond, "║  LinkedIn:  linkedin.com/in/xurxo.astorgano    ║"),
	sequence.Info(50*time.Millisecond, "╚════════════════════════════════════════════════╝"),
	sequence.Command(500*time.Millisecond, "$ cd mail/"),
	sequence.Command(300*time.Millisecond, "$ ./mail-client"),
	sequence.Output(500*time.Millisecond, "Opening mail client..."),
	sequence.Blank(300 * time.Millisecond),
}

var successBlock = []sequence.Line{
	{Text: `$ echo "Message sent"`, Style: sequence.StyleCommand},
	{Text: "✓ Message has been sent successfully!", Style: sequence.StyleSuccess},
	{Text: "Thank you for reaching out. I'll get back to you soon.", Style: sequence.StyleOutput},
}

// Transcript returns a copy of the contact page script.
func Transcript() []sequence.Line {
	return append([]sequence.Line(nil), transcript...)
}
