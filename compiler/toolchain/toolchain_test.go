package toolchain

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	gomock "github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"tlog.app/go/errors"

	"github.com/slowlang/subc/compiler"
	"github.com/slowlang/subc/compiler/diag"
	"github.com/slowlang/subc/compiler/target"
)

var _ = Describe("Build", func() {
	var (
		ctx      context.Context
		mockCtrl *gomock.Controller
		mockTC   *MockToolchain
	)

	BeforeEach(func() {
		ctx = context.Background()
		mockCtrl = gomock.NewController(GinkgoT())
		mockTC = NewMockToolchain(mockCtrl)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should pass the text in a temporary file and remove it", func() {
		text := []byte("    .intel_syntax noprefix\n")

		var asmPath string

		mockTC.EXPECT().
			Assemble(gomock.Any(), gomock.Any(), "a.out").
			DoAndReturn(func(ctx context.Context, p, exe string) error {
				asmPath = p

				Expect(p).To(HaveSuffix(".s"))
				Expect(os.ReadFile(p)).To(Equal(text))

				return nil
			})

		err := Build(ctx, mockTC, text, "a.out")
		Expect(err).NotTo(HaveOccurred())

		_, err = os.Stat(asmPath)
		Expect(os.IsNotExist(err)).To(BeTrue())
	})

	It("should report toolchain failures", func() {
		mockTC.EXPECT().
			Assemble(gomock.Any(), gomock.Any(), "prog").
			Return(&Error{Cmd: "cc x.s -o prog", Output: []byte("x.s:3: Error: no such instruction\n"), Err: os.ErrInvalid})

		err := Build(ctx, mockTC, []byte("bad\n"), "prog")
		Expect(err).To(HaveOccurred())
		Expect(IsError(err)).To(BeTrue())
		Expect(diag.IsInternal(err)).To(BeFalse())
		Expect(err.Error()).To(ContainSubstring("no such instruction"))
	})
})

var _ = Describe("CC", func() {
	var (
		ctx context.Context
		dir string
		cc  *CC
	)

	BeforeEach(func() {
		if runtime.GOOS != "linux" || runtime.GOARCH != "amd64" {
			Skip("programs are built for linux/amd64")
		}

		path, err := exec.LookPath(DefaultCC)
		if err != nil {
			Skip("no C compiler")
		}

		ctx = context.Background()
		dir = GinkgoT().TempDir()
		cc = NewCC(path)
	})

	DescribeTable("compiled programs exit with the value returned",
		func(src string, status int) {
			res, err := compiler.Compile(ctx, "prog.c", []byte(src), compiler.Options{Target: target.Default()})
			Expect(err).NotTo(HaveOccurred())

			exe := filepath.Join(dir, "prog")

			err = Build(ctx, cc, res.Text, exe)
			Expect(err).NotTo(HaveOccurred())

			Expect(Run(ctx, exe)).To(Equal(Exit{Status: status}))
		},
		Entry("constant", "int main(void) { return 2; }", 2),
		Entry("precedence", "int main(void) { return 1 + 2 * 3; }", 7),
		Entry("parens", "int main(void) { return 6 * (2 - 3) + 20; }", 14),
		Entry("double negation", "int main(void) { return -(-5); }", 5),
		Entry("complement", "int main(void) { return ~0 & 255; }", 255),
		Entry("division", "int main(void) { return 10 / 3 + 10 % 3; }", 4),
		Entry("negative division", "int main(void) { return -7 / 2 + 10; }", 7),
		Entry("negative remainder", "int main(void) { return -7 % 3 + 5; }", 4),
		Entry("and", "int main(void) { return 1 && 0; }", 0),
		Entry("or", "int main(void) { return 0 || 5; }", 1),
		Entry("shift", "int main(void) { return 1 << 4 | 3; }", 19),
		Entry("shift by expression", "int main(void) { return 100 >> (1 + 1) ^ 1; }", 24),
		Entry("relational", "int main(void) { return (5 > 3) + (2 <= 2) + (1 == 2) + (3 != 4); }", 3),
		Entry("not", "int main() { return !0 + !5; }", 1),
		Entry("comments", "int main(void) { /* two */ return 2; // done\n}", 2),
	)

	It("should report the signal that killed the program", func() {
		res, err := compiler.Compile(ctx, "div.c", []byte("int main(void) { return 1 / 0; }"), compiler.Options{Target: target.Default()})
		Expect(err).NotTo(HaveOccurred())

		exe := filepath.Join(dir, "div")

		err = Build(ctx, cc, res.Text, exe)
		Expect(err).NotTo(HaveOccurred())

		st, err := Run(ctx, exe)
		Expect(err).NotTo(HaveOccurred())
		Expect(st.Signaled()).To(BeTrue())
		Expect(st.Signal).To(Equal(syscall.SIGFPE))
		Expect(st.String()).To(HavePrefix("killed by signal 8"))
	})

	It("should fail on invalid assembly", func() {
		err := Build(ctx, cc, []byte("    not_an_instruction rax\n"), filepath.Join(dir, "bad"))
		Expect(err).To(HaveOccurred())
		Expect(IsError(err)).To(BeTrue())

		var te *Error
		Expect(errors.As(err, &te)).To(BeTrue())
		Expect(strings.TrimSpace(string(te.Output))).NotTo(BeEmpty())
	})
})

var _ = Describe("Exit", func() {
	It("should describe the status", func() {
		Expect(Exit{Status: 3}.String()).To(Equal("exited with status 3"))
		Expect(Exit{}.Signaled()).To(BeFalse())
	})

	It("should describe the signal", func() {
		st := Exit{Status: -1, Signal: syscall.SIGKILL}

		Expect(st.Signaled()).To(BeTrue())
		Expect(st.String()).To(Equal(fmt.Sprintf("killed by signal %d (%v)", int(syscall.SIGKILL), syscall.SIGKILL)))
	})
})
