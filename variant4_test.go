package cryptonight

import (
	"testing"
)

func TestV4RandomMathInitPure(t *testing.T) {
	for _, height := range []uint64{0, 1, 1806260, 1806261, 10000000} {
		a := v4RandomMathInit(height)
		b := v4RandomMathInit(height)
		if a != b {
			t.Errorf("height %d: generator is not a pure function of height", height)
		}
	}
	if v4RandomMathInit(1806260) == v4RandomMathInit(1806261) {
		t.Error("adjacent heights produced identical programs")
	}
}

func TestV4RandomMathInitShape(t *testing.T) {
	for height := uint64(0); height < 64; height++ {
		code := v4RandomMathInit(height)

		size := -1
		for i := range code {
			if code[i].opcode == opRet {
				size = i
				break
			}
		}
		if size < numInstructionsMin || size > numInstructionsMax {
			t.Fatalf("height %d: program size %d outside [%d, %d]",
				height, size, numInstructionsMin, numInstructionsMax)
		}

		r8Used := false
		for _, op := range code[:size] {
			if op.opcode >= opCount {
				t.Fatalf("height %d: bad opcode %d", height, op.opcode)
			}
			if op.dstIndex > 3 || op.srcIndex > 8 {
				t.Fatalf("height %d: register index out of range", height)
			}
			if op.srcIndex == 8 {
				r8Used = true
			}
			if op.opcode != opAdd && op.c != 0 {
				t.Fatalf("height %d: non-ADD instruction carries a constant", height)
			}
		}
		if !r8Used {
			t.Fatalf("height %d: register R8 never used", height)
		}
	}
}

func TestV4RandomMathZeroProgram(t *testing.T) {
	// An all-zero program is MUL r0, r0 everywhere; on a zero register
	// file nothing may change.
	var code [numInstructionsMax + 1]v4Instruction
	var r [9]uint32
	v4RandomMath(&code, &r)
	if r != ([9]uint32{}) {
		t.Errorf("zero program disturbed zero registers: %v", r)
	}
}

func TestV4RandomMathOps(t *testing.T) {
	run := func(op v4Instruction, r [9]uint32) [9]uint32 {
		code := [numInstructionsMax + 1]v4Instruction{op, {opcode: opRet}}
		v4RandomMath(&code, &r)
		return r
	}

	r := run(v4Instruction{opcode: opAdd, dstIndex: 0, srcIndex: 1, c: 5}, [9]uint32{10, 0xffffffff})
	if r[0] != 14 {
		t.Errorf("ADD: got %d, want 14", r[0])
	}
	r = run(v4Instruction{opcode: opSub, dstIndex: 1, srcIndex: 2}, [9]uint32{0, 1, 3})
	if r[1] != 0xfffffffe {
		t.Errorf("SUB: got %#x, want 0xfffffffe", r[1])
	}
	r = run(v4Instruction{opcode: opMul, dstIndex: 0, srcIndex: 3}, [9]uint32{1 << 31, 0, 0, 6})
	if r[0] != 0 {
		t.Errorf("MUL: got %#x, want wrap to 0", r[0])
	}
	r = run(v4Instruction{opcode: opRor, dstIndex: 0, srcIndex: 1}, [9]uint32{1, 33})
	if r[0] != 1<<31 {
		t.Errorf("ROR: got %#x, want %#x", r[0], uint32(1<<31))
	}
	r = run(v4Instruction{opcode: opRol, dstIndex: 0, srcIndex: 1}, [9]uint32{1 << 31, 1})
	if r[0] != 1 {
		t.Errorf("ROL: got %#x, want 1", r[0])
	}
	r = run(v4Instruction{opcode: opXor, dstIndex: 2, srcIndex: 8}, [9]uint32{0, 0, 0xff, 0, 0, 0, 0, 0, 0x0f})
	if r[2] != 0xf0 {
		t.Errorf("XOR: got %#x, want 0xf0", r[2])
	}

	// RET stops execution immediately
	code := [numInstructionsMax + 1]v4Instruction{
		{opcode: opRet},
		{opcode: opAdd, dstIndex: 0, srcIndex: 1, c: 1},
	}
	var regs [9]uint32
	v4RandomMath(&code, &regs)
	if regs != ([9]uint32{}) {
		t.Error("instructions after RET were executed")
	}
}
