package config

// StarterPipeline is the pipeline written by `depstrap init`: the media
// encoding toolchain built in dependency order into a shared prefix. Build
// flags are configuration data; edit them freely.
const StarterPipeline = `# depstrap pipeline: media encoding toolchain
# Steps run in order; depends_on may only reference earlier steps.
prefix: ./deps

env:
  PKG_CONFIG_PATH: $PREFIX/lib/pkgconfig
  PATH: $PREFIX/bin:$PATH

command_timeout: 45m

steps:
  - name: fdk-aac
    repo: https://github.com/mstorsjo/fdk-aac.git
    ref: v2.0.2
    source: $PREFIX/src/fdk-aac
    target: $PREFIX/lib/libfdk-aac.a
    commands:
      - [autoreconf, -fiv]
      - [./configure, --prefix=$PREFIX, --disable-shared]
      - [make, -j4]
      - [make, install]

  - name: x265
    repo: https://bitbucket.org/multicoreware/x265_git.git
    ref: "3.5"
    source: $PREFIX/src/x265
    target: $PREFIX/lib/libx265.a
    commands:
      - [cmake, -S, source, -B, build, -DCMAKE_INSTALL_PREFIX=$PREFIX, -DENABLE_SHARED=OFF]
      - [make, -C, build, -j4]
      - [make, -C, build, install]

  - name: libaom
    repo: https://aomedia.googlesource.com/aom
    ref: v3.2.0
    source: $PREFIX/src/aom
    target: $PREFIX/lib/libaom.a
    commands:
      - [cmake, -S, ., -B, build, -DCMAKE_INSTALL_PREFIX=$PREFIX, -DBUILD_SHARED_LIBS=0, -DENABLE_TESTS=0]
      - [make, -C, build, -j4]
      - [make, -C, build, install]

  - name: ffmpeg
    repo: https://git.ffmpeg.org/ffmpeg.git
    ref: n4.4.1
    source: $PREFIX/src/ffmpeg
    target: $PREFIX/bin/ffmpeg
    depends_on: [fdk-aac, x265, libaom]
    commands:
      - [./configure, --prefix=$PREFIX, --pkg-config-flags=--static,
         --extra-cflags=-I$PREFIX/include, --extra-ldflags=-L$PREFIX/lib,
         --enable-gpl, --enable-nonfree, --enable-libfdk-aac,
         --enable-libx265, --enable-libaom]
      - [make, -j4]
      - [make, install]

  - name: vmaf
    repo: https://github.com/Netflix/vmaf.git
    ref: v2.3.0
    source: $PREFIX/src/vmaf
    target: $PREFIX/bin/vmaf
    depends_on: [ffmpeg]
    commands:
      - [meson, setup, libvmaf/build, libvmaf, --buildtype, release, --prefix, $PREFIX]
      - [ninja, -C, libvmaf/build]
      - [ninja, -C, libvmaf/build, install]
`
