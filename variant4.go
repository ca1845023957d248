package cryptonight // import "github.com/monerokit/cryptonight"

import (
	"encoding/binary"
	"math/bits"

	"github.com/dchest/blake256"
)

// Variant 4 (CryptoNight-R) replaces the division/sqrt chain with a short
// random program, regenerated deterministically for every block height.
// The generator models a small CPU: 3 ALUs of which one can multiply,
// instruction latencies matching a Cortex-A53, and a 45-cycle latency
// target for the four variable registers. It draws randomness from
// repeated BLAKE-256 hashing of a height-seeded 32-byte buffer, so any
// byte sequence yields a valid program.

const (
	// minimal required latency for the four variable registers,
	// equivalent to 15 multiplications
	totalLatency = 15 * 3

	numInstructionsMin = 60
	numInstructionsMax = 70

	// one ALU can multiply; the other two handle everything else
	aluCountMul = 1
	aluCount    = 3
)

// opcodes; RET terminates the interpreter
const (
	opMul = iota // a * b
	opAdd        // a + b + C, C is an unsigned 32-bit constant
	opSub        // a - b
	opRor        // rotate right a by b & 31 bits
	opRol        // rotate left a by b & 31 bits
	opXor        // a ^ b
	opRet
	opCount = opRet
)

type v4Instruction struct {
	opcode   uint8
	dstIndex uint8
	srcIndex uint8
	c        uint32
}

// v4RandomMathInit generates the fixed-length random program for the given
// block height. It is a pure function of height.
func v4RandomMathInit(height uint64) [numInstructionsMax + 1]v4Instruction {
	opLatency := [opCount]int{3, 2, 1, 2, 2, 1}
	asicOpLatency := [opCount]int{3, 1, 1, 1, 1, 1}
	opALUs := [opCount]int{aluCountMul, aluCount, aluCount, aluCount, aluCount, aluCount}

	var data [32]byte
	binary.LittleEndian.PutUint64(data[:], height)
	data[20] = 0xda // change seed

	// Start past the last byte so the first draw already triggers a full
	// buffer update with the blake hash.
	dataIndex := len(data)
	checkData := func(bytesNeeded int) {
		if dataIndex+bytesNeeded > len(data) {
			h := blake256.New()
			h.Write(data[:])
			h.Sum(data[:0])
			dataIndex = 0
		}
	}

	var code [numInstructionsMax + 1]v4Instruction
	var codeSize int

	// There is a small chance (1.8%) that register R8 won't be used in
	// the generated program, so we keep track of it and try again if
	// it's not used.
	for {
		var latency, asicLatency [9]int

		// Tracks the previous instruction and the value of the source
		// operand for registers R0-R3 throughout code execution:
		// byte 0: current value of the destination register
		// byte 1: instruction opcode
		// byte 2: current value of the source register
		//
		// Registers R4-R8 are constant and are treated as having the
		// same value, because doing the same operation with two
		// constant source registers can be optimized into a single
		// operation.
		instData := [9]uint32{0, 1, 2, 3, 0xffffff, 0xffffff, 0xffffff, 0xffffff, 0xffffff}

		var aluBusy [totalLatency + 1][aluCount]bool
		var isRotation [opCount]bool
		var rotated [4]bool
		rotateCount := 0
		isRotation[opRor] = true
		isRotation[opRol] = true

		numRetries := 0
		codeSize = 0
		totalIterations := 0
		r8Used := false

		// Generate random code to achieve the required latency for our
		// abstract CPU, for all 4 variable registers.
		for (latency[0] < totalLatency || latency[1] < totalLatency ||
			latency[2] < totalLatency || latency[3] < totalLatency) && numRetries < 64 {
			// fail-safe to guarantee loop termination
			totalIterations++
			if totalIterations > 256 {
				break
			}

			checkData(1)
			c := data[dataIndex]
			dataIndex++

			// MUL = opcodes 0-2
			// ADD = opcode 3
			// SUB = opcode 4
			// ROR/ROL = opcode 5, depending on the data received
			// XOR = opcodes 6-7
			opcode := int(c & 7)
			dstIndex := c >> 3 & 3
			srcIndex := c >> 5 & 7

			switch {
			case opcode == 5:
				checkData(1)
				if int8(data[dataIndex]) >= 0 {
					opcode = opRor
				} else {
					opcode = opRol
				}
				dataIndex++
			case opcode >= 6:
				opcode = opXor
			case opcode <= 2:
				opcode = opMul
			default:
				opcode -= 2 // 3 is ADD, 4 is SUB
			}

			a := int(dstIndex)
			b := int(srcIndex)

			// Don't do ADD/SUB/XOR with the same register; use the
			// constant register R8 as the source instead.
			if (opcode == opAdd || opcode == opSub || opcode == opXor) && a == b {
				b = 8
				srcIndex = 8
			}

			// Don't rotate the same destination twice in a row: it's
			// equal to a single rotation.
			if isRotation[opcode] && rotated[a] {
				continue
			}

			// Don't repeat an instruction (except MUL) with the same
			// source value: 2xADD(a,b,C) = ADD(a,2b,C1+C2),
			// 2xROR = ROR(a,2b), 2xXOR = NOP, and so on.
			if opcode != opMul && instData[a]&0xffff00 == uint32(opcode)<<8+(instData[b]&255)<<16 {
				continue
			}

			// Find which ALU is available, and when, for this
			// instruction.
			nextLatency := latency[a]
			if latency[b] > nextLatency {
				nextLatency = latency[b]
			}
			aluIndex := -1
			for nextLatency < totalLatency {
				for i := opALUs[opcode] - 1; i >= 0; i-- {
					if aluBusy[nextLatency][i] {
						continue
					}
					// ADD is implemented as two 1-cycle instructions
					// on a real CPU, so check the next cycle too.
					if opcode == opAdd && aluBusy[nextLatency+1][i] {
						continue
					}
					// A rotation can only start when the previous
					// rotation has finished.
					if isRotation[opcode] && nextLatency < rotateCount*opLatency[opcode] {
						continue
					}
					aluIndex = i
					break
				}
				if aluIndex >= 0 {
					break
				}
				nextLatency++
			}

			// Don't leave a register unchanged for more than 7 cycles.
			if nextLatency > latency[a]+7 {
				continue
			}

			nextLatency += opLatency[opcode]

			if nextLatency > totalLatency {
				numRetries++
				continue
			}

			if isRotation[opcode] {
				rotateCount++
			}

			// ALUs are fully pipelined: mark the ALU busy only for the
			// first cycle of the instruction.
			aluBusy[nextLatency-opLatency[opcode]][aluIndex] = true
			latency[a] = nextLatency

			// An ASIC has enough ALUs to run as many independent
			// instructions per cycle as possible, so its latency
			// calculation is simple.
			if asicLatency[b] > asicLatency[a] {
				asicLatency[a] = asicLatency[b]
			}
			asicLatency[a] += asicOpLatency[opcode]

			rotated[a] = isRotation[opcode]
			instData[a] = uint32(codeSize) + uint32(opcode)<<8 + (instData[b]&255)<<16

			code[codeSize] = v4Instruction{
				opcode:   uint8(opcode),
				dstIndex: dstIndex,
				srcIndex: srcIndex,
			}
			if srcIndex == 8 {
				r8Used = true
			}

			if opcode == opAdd {
				aluBusy[nextLatency-opLatency[opcode]+1][aluIndex] = true

				// ADD carries a 32-bit constant
				checkData(4)
				code[codeSize].c = binary.LittleEndian.Uint32(data[dataIndex:])
				dataIndex += 4
			}

			codeSize++
			if codeSize >= numInstructionsMin {
				break
			}
		}

		// An ASIC can extract more parallelism, so append a few more MUL
		// and ROR instructions until at least one register reaches the
		// latency target on the ASIC model too.
		prevCodeSize := codeSize
		for codeSize < numInstructionsMax &&
			asicLatency[0] < totalLatency && asicLatency[1] < totalLatency &&
			asicLatency[2] < totalLatency && asicLatency[3] < totalLatency {
			minIdx, maxIdx := 0, 0
			for i := 1; i < 4; i++ {
				if asicLatency[i] < asicLatency[minIdx] {
					minIdx = i
				}
				if asicLatency[i] > asicLatency[maxIdx] {
					maxIdx = i
				}
			}

			pattern := [3]uint8{opRor, opMul, opMul}
			opcode := pattern[(codeSize-prevCodeSize)%3]
			latency[minIdx] = latency[maxIdx] + opLatency[opcode]
			asicLatency[minIdx] = asicLatency[maxIdx] + asicOpLatency[opcode]

			code[codeSize] = v4Instruction{
				opcode:   opcode,
				dstIndex: uint8(minIdx),
				srcIndex: uint8(maxIdx),
			}
			codeSize++
		}

		if r8Used && codeSize >= numInstructionsMin && codeSize <= numInstructionsMax {
			break
		}
	}

	code[codeSize] = v4Instruction{opcode: opRet}
	return code
}

// v4RandomMath executes the program on the register file.
func v4RandomMath(code *[numInstructionsMax + 1]v4Instruction, r *[9]uint32) {
	for i := range code {
		op := &code[i]
		src := r[op.srcIndex]
		switch op.opcode {
		case opMul:
			r[op.dstIndex] *= src
		case opAdd:
			r[op.dstIndex] += src + op.c
		case opSub:
			r[op.dstIndex] -= src
		case opRor:
			r[op.dstIndex] = bits.RotateLeft32(r[op.dstIndex], -int(src&31))
		case opRol:
			r[op.dstIndex] = bits.RotateLeft32(r[op.dstIndex], int(src&31))
		case opXor:
			r[op.dstIndex] ^= src
		case opRet:
			return
		}
	}
}

// variant4RandomMath is the per-iteration step of the main loop: fold the
// register file into c2, refresh the constant registers from a1 and b, run
// the program, and fold the results back into a1.
func variant4RandomMath(a1, c2 *[2]uint64, r *[9]uint32, b *[4]uint64, code *[numInstructionsMax + 1]v4Instruction) {
	c2[0] ^= uint64(r[0]+r[1]) | uint64(r[2]+r[3])<<32

	r[4] = uint32(a1[0])
	r[5] = uint32(a1[1])
	r[6] = uint32(b[0])
	r[7] = uint32(b[2])
	r[8] = uint32(b[3])

	v4RandomMath(code, r)

	a1[0] ^= uint64(r[2]) | uint64(r[3])<<32
	a1[1] ^= uint64(r[0]) | uint64(r[1])<<32
}
