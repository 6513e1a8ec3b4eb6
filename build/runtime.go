package build

// runtimeHelpers is the freestanding I/O runtime linked into every compiled
// program.  It provides `print_int`, `print_bool`, and `read_int` over raw
// Linux syscalls, so the `ld` toolchain needs no libc.
const runtimeHelpers = `# Kielo runtime: I/O over raw Linux syscalls
    .section .data
newline:
    .byte 10
digit_buffer:
    .zero 32

    .section .rodata
true_str:
    .string "true"
false_str:
    .string "false"

    .section .text

# print_int: prints the signed integer in %rdi followed by a newline
    .global print_int
print_int:
    pushq %rbp
    movq %rsp, %rbp
    pushq %rbx
    pushq %r12
    pushq %r13

    movq %rdi, %rax
    movq $0, %r12
    cmpq $0, %rax
    jge .Lpi_convert
    movq $1, %r12
    negq %rax

.Lpi_convert:
    # produce the decimal digits backwards from the end of the buffer
    leaq digit_buffer+31(%rip), %rbx
    cmpq $0, %rax
    jne .Lpi_loop
    decq %rbx
    movb $'0', (%rbx)
    jmp .Lpi_sign

.Lpi_loop:
    cmpq $0, %rax
    je .Lpi_sign
    movq $0, %rdx
    movq $10, %rcx
    divq %rcx
    addq $'0', %rdx
    decq %rbx
    movb %dl, (%rbx)
    jmp .Lpi_loop

.Lpi_sign:
    cmpq $0, %r12
    je .Lpi_write
    decq %rbx
    movb $'-', (%rbx)

.Lpi_write:
    leaq digit_buffer+31(%rip), %r13
    subq %rbx, %r13
    movq $1, %rax
    movq $1, %rdi
    movq %rbx, %rsi
    movq %r13, %rdx
    syscall
    movq $1, %rax
    movq $1, %rdi
    leaq newline(%rip), %rsi
    movq $1, %rdx
    syscall

    popq %r13
    popq %r12
    popq %rbx
    movq %rbp, %rsp
    popq %rbp
    ret

# print_bool: prints "true" or "false" for the 0/1 value in %rdi
    .global print_bool
print_bool:
    pushq %rbp
    movq %rsp, %rbp

    cmpq $0, %rdi
    je .Lpb_false
    movq $1, %rax
    movq $1, %rdi
    leaq true_str(%rip), %rsi
    movq $4, %rdx
    syscall
    jmp .Lpb_newline

.Lpb_false:
    movq $1, %rax
    movq $1, %rdi
    leaq false_str(%rip), %rsi
    movq $5, %rdx
    syscall

.Lpb_newline:
    movq $1, %rax
    movq $1, %rdi
    leaq newline(%rip), %rsi
    movq $1, %rdx
    syscall

    movq %rbp, %rsp
    popq %rbp
    ret

# read_int: reads one decimal integer (optionally signed) from stdin into %rax
    .global read_int
read_int:
    pushq %rbp
    movq %rsp, %rbp
    pushq %rbx
    pushq %r12
    pushq %r13
    pushq %r14
    subq $40, %rsp
    movq %rsp, %rbx

    movq $0, %rax
    movq $0, %rdi
    movq %rbx, %rsi
    movq $32, %rdx
    syscall

    cmpq $0, %rax
    jle .Lri_error
    movq %rax, %r10

    movq $0, %r12
    movq $1, %r13
    movq $0, %r14

    movb (%rbx,%r14,1), %al
    cmpb $'-', %al
    jne .Lri_digits
    movq $-1, %r13
    incq %r14

.Lri_digits:
    cmpq %r10, %r14
    jge .Lri_done
    movzbq (%rbx,%r14,1), %rcx
    cmpq $'0', %rcx
    jl .Lri_done
    cmpq $'9', %rcx
    jg .Lri_done
    subq $'0', %rcx
    imulq $10, %r12
    addq %rcx, %r12
    incq %r14
    jmp .Lri_digits

.Lri_done:
    imulq %r13, %r12
    movq %r12, %rax
    jmp .Lri_ret

.Lri_error:
    movq $0, %rax

.Lri_ret:
    addq $40, %rsp
    popq %r14
    popq %r13
    popq %r12
    popq %rbx
    movq %rbp, %rsp
    popq %rbp
    ret
`

// startStub is the process entry point used by the `ld` toolchain: it calls
// `main` and exits with its result.  The `gcc` toolchain omits it since the C
// runtime provides its own `_start`.
const startStub = `
    .section .text
    .global _start
_start:
    call main
    movq %rax, %rdi
    movq $60, %rax
    syscall
`
