//go:build cuda
// +build cuda

package gpu

/*
#cgo LDFLAGS: -lcudart -lcublas
#include <cuda_runtime.h>
#include <cublas_v2.h>
*/
import "C"
import (
	"fmt"
	"time"
	"unsafe"

	"go.uber.org/zap"
)

// CUDABackend implements Backend on an NVIDIA GPU through cuBLAS.
//
// cuBLAS stores matrices column-major while this package is row-major, which
// amounts to an implicit transpose on every pointer handed over. For
// C = A * B the column-major view of our row-major C is C^T = B^T * A^T, and
// B^T, A^T are exactly the buffers we already hold. So SGEMM is called with
// the operands swapped, (n, m, k) instead of (m, n, k), and no transpose
// flags or copies.
type CUDABackend struct {
	logger      *zap.Logger
	handle      C.cublasHandle_t
	deviceInfo  DeviceInfo
	initialized bool
	available   bool
}

// NewCUDABackend creates a new CUDA backend instance and probes the device.
func NewCUDABackend(logger *zap.Logger) *CUDABackend {
	backend := &CUDABackend{logger: logger}

	if err := backend.checkDevice(); err != nil {
		logger.Warn("CUDA device not available", zap.Error(err))
		backend.available = false
	} else {
		backend.available = true
	}

	return backend
}

// Initialize creates the cuBLAS handle and snapshots device properties.
func (c *CUDABackend) Initialize() error {
	if !c.available {
		return fmt.Errorf("CUDA device not available")
	}
	if c.initialized {
		return nil
	}

	if status := C.cublasCreate_v2(&c.handle); status != C.CUBLAS_STATUS_SUCCESS {
		return fmt.Errorf("cublasCreate failed: %s", cublasStatusString(status))
	}

	var prop C.struct_cudaDeviceProp
	if err := cudaCheck("cudaGetDeviceProperties", C.cudaGetDeviceProperties(&prop, 0)); err != nil {
		C.cublasDestroy_v2(c.handle)
		return err
	}

	var freeMem, totalMem C.size_t
	if err := cudaCheck("cudaMemGetInfo", C.cudaMemGetInfo(&freeMem, &totalMem)); err != nil {
		C.cublasDestroy_v2(c.handle)
		return err
	}

	var driverVer, runtimeVer C.int
	C.cudaDriverGetVersion(&driverVer)
	C.cudaRuntimeGetVersion(&runtimeVer)

	c.deviceInfo = DeviceInfo{
		Name:              C.GoString(&prop.name[0]),
		TotalMemory:       int64(totalMem),
		AvailableMemory:   int64(freeMem),
		ComputeCapability: fmt.Sprintf("%d.%d", int(prop.major), int(prop.minor)),
		DriverVersion:     cudaVersionString(driverVer),
		CUDAVersion:       cudaVersionString(runtimeVer),
	}

	c.initialized = true
	c.logger.Info("CUDA backend initialized",
		zap.String("device", c.deviceInfo.Name),
		zap.String("compute_capability", c.deviceInfo.ComputeCapability),
		zap.Float64("total_memory_gb", float64(c.deviceInfo.TotalMemory)/(1<<30)))

	return nil
}

// MatrixMultiply runs SGEMM on the device. The multiply itself is timed with
// CUDA events; transfers happen outside the timed region. Device buffers are
// released via defer so a failure partway through never leaks them.
func (c *CUDABackend) MatrixMultiply(a, b []float32, m, k, n int) (*Product, error) {
	if !c.initialized {
		if err := c.Initialize(); err != nil {
			return nil, fmt.Errorf("failed to initialize CUDA backend: %w", err)
		}
	}

	if len(a) != m*k {
		return nil, fmt.Errorf("matrix A size mismatch: expected %d, got %d", m*k, len(a))
	}
	if len(b) != k*n {
		return nil, fmt.Errorf("matrix B size mismatch: expected %d, got %d", k*n, len(b))
	}

	bytesA := C.size_t(m * k * 4)
	bytesB := C.size_t(k * n * 4)
	bytesC := C.size_t(m * n * 4)

	var dA, dB, dC unsafe.Pointer
	if err := cudaCheck("cudaMalloc A", C.cudaMalloc(&dA, bytesA)); err != nil {
		return nil, err
	}
	defer C.cudaFree(dA)
	if err := cudaCheck("cudaMalloc B", C.cudaMalloc(&dB, bytesB)); err != nil {
		return nil, err
	}
	defer C.cudaFree(dB)
	if err := cudaCheck("cudaMalloc C", C.cudaMalloc(&dC, bytesC)); err != nil {
		return nil, err
	}
	defer C.cudaFree(dC)

	if err := cudaCheck("cudaMemcpy A", C.cudaMemcpy(dA, unsafe.Pointer(&a[0]), bytesA, C.cudaMemcpyHostToDevice)); err != nil {
		return nil, err
	}
	if err := cudaCheck("cudaMemcpy B", C.cudaMemcpy(dB, unsafe.Pointer(&b[0]), bytesB, C.cudaMemcpyHostToDevice)); err != nil {
		return nil, err
	}

	var start, stop C.cudaEvent_t
	if err := cudaCheck("cudaEventCreate start", C.cudaEventCreate(&start)); err != nil {
		return nil, err
	}
	defer C.cudaEventDestroy(start)
	if err := cudaCheck("cudaEventCreate stop", C.cudaEventCreate(&stop)); err != nil {
		return nil, err
	}
	defer C.cudaEventDestroy(stop)

	alpha := C.float(1.0)
	beta := C.float(0.0)

	if err := cudaCheck("cudaEventRecord start", C.cudaEventRecord(start, nil)); err != nil {
		return nil, err
	}
	// Swapped operand order, see type comment.
	status := C.cublasSgemm_v2(c.handle,
		C.CUBLAS_OP_N, C.CUBLAS_OP_N,
		C.int(n), C.int(m), C.int(k),
		&alpha,
		(*C.float)(dB), C.int(n),
		(*C.float)(dA), C.int(k),
		&beta,
		(*C.float)(dC), C.int(n))
	if status != C.CUBLAS_STATUS_SUCCESS {
		return nil, fmt.Errorf("cublasSgemm failed: %s", cublasStatusString(status))
	}
	if err := cudaCheck("cudaEventRecord stop", C.cudaEventRecord(stop, nil)); err != nil {
		return nil, err
	}
	if err := cudaCheck("cudaEventSynchronize", C.cudaEventSynchronize(stop)); err != nil {
		return nil, err
	}

	var msec C.float
	if err := cudaCheck("cudaEventElapsedTime", C.cudaEventElapsedTime(&msec, start, stop)); err != nil {
		return nil, err
	}

	result := make([]float32, m*n)
	if err := cudaCheck("cudaMemcpy C", C.cudaMemcpy(unsafe.Pointer(&result[0]), dC, bytesC, C.cudaMemcpyDeviceToHost)); err != nil {
		return nil, err
	}

	c.logger.Debug("CUDA SGEMM completed",
		zap.Int("m", m), zap.Int("k", k), zap.Int("n", n),
		zap.Float64("compute_msec", float64(msec)))

	return &Product{
		Data:        result,
		ComputeTime: time.Duration(float64(msec) * float64(time.Millisecond)),
	}, nil
}

// GetDeviceInfo returns information about the CUDA device.
func (c *CUDABackend) GetDeviceInfo() DeviceInfo {
	return c.deviceInfo
}

// IsAvailable reports whether a usable CUDA device was found.
func (c *CUDABackend) IsAvailable() bool {
	return c.available
}

// Cleanup destroys the cuBLAS handle.
func (c *CUDABackend) Cleanup() error {
	if !c.initialized {
		return nil
	}
	if status := C.cublasDestroy_v2(c.handle); status != C.CUBLAS_STATUS_SUCCESS {
		return fmt.Errorf("cublasDestroy failed: %s", cublasStatusString(status))
	}
	c.initialized = false
	return nil
}

func (c *CUDABackend) checkDevice() error {
	var count C.int
	if err := cudaCheck("cudaGetDeviceCount", C.cudaGetDeviceCount(&count)); err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("no CUDA device found")
	}
	return nil
}

// cudaCheck wraps a CUDA runtime status into an error naming the failed call.
func cudaCheck(call string, err C.cudaError_t) error {
	if err == C.cudaSuccess {
		return nil
	}
	return fmt.Errorf("%s failed: %s", call, C.GoString(C.cudaGetErrorString(err)))
}

func cublasStatusString(status C.cublasStatus_t) string {
	switch status {
	case C.CUBLAS_STATUS_NOT_INITIALIZED:
		return "not initialized"
	case C.CUBLAS_STATUS_ALLOC_FAILED:
		return "allocation failed"
	case C.CUBLAS_STATUS_INVALID_VALUE:
		return "invalid value"
	case C.CUBLAS_STATUS_ARCH_MISMATCH:
		return "architecture mismatch"
	case C.CUBLAS_STATUS_MAPPING_ERROR:
		return "mapping error"
	case C.CUBLAS_STATUS_EXECUTION_FAILED:
		return "execution failed"
	case C.CUBLAS_STATUS_INTERNAL_ERROR:
		return "internal error"
	default:
		return fmt.Sprintf("unknown status (%d)", int(status))
	}
}

// cudaVersionString formats the packed CUDA version integer (e.g. 12040).
func cudaVersionString(v C.int) string {
	return fmt.Sprintf("%d.%d", int(v)/1000, (int(v)%1000)/10)
}
